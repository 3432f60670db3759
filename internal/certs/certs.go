// Package certs inspects the TLS certificate the server is configured with.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"time"

	"hostelpass/internal/errors"
)

// RenewWindow is how close to expiry a certificate starts producing warnings.
const RenewWindow = 14 * 24 * time.Hour

// Status describes the leaf certificate of a configured pair.
type Status struct {
	Subject  string
	NotAfter time.Time
	Expired  bool
	Expiring bool
}

// LoadCertificate parses the first PEM certificate in path.
func LoadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "read certificate %s", path)
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.Newf(errors.ErrConfigLoad, "no PEM certificate in %s", path)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "parse certificate %s", path)
	}
	return cert, nil
}

// IsExpired reports whether cert is no longer valid at now.
func IsExpired(cert *x509.Certificate, now time.Time) bool {
	return now.After(cert.NotAfter)
}

// Check verifies that certFile and keyFile form a usable pair and reports how
// long the certificate has left.
func Check(certFile, keyFile string, now time.Time) (Status, error) {
	if _, err := tls.LoadX509KeyPair(certFile, keyFile); err != nil {
		return Status{}, errors.Wrap(err, errors.ErrConfigLoad, "load TLS key pair")
	}
	cert, err := LoadCertificate(certFile)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Subject:  cert.Subject.CommonName,
		NotAfter: cert.NotAfter,
		Expired:  IsExpired(cert, now),
		Expiring: !IsExpired(cert, now) && cert.NotAfter.Sub(now) < RenewWindow,
	}, nil
}
