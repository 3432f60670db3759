package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hostelpass/internal/api"
	"hostelpass/internal/auth"
	"hostelpass/internal/certs"
	"hostelpass/internal/config"
	"hostelpass/internal/errors"
	"hostelpass/internal/files"
	"hostelpass/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and pass pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.GetLogger("server")

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	authn, err := auth.NewAuthenticator(auth.DefaultCredentials())
	if err != nil {
		return err
	}
	if cfg.Server.TLS() {
		st, err := certs.Check(cfg.Server.TLSCert, cfg.Server.TLSKey, time.Now())
		if err != nil {
			return err
		}
		if st.Expired {
			return errors.Newf(errors.ErrConfigLoad, "TLS certificate for %s expired on %s", st.Subject, st.NotAfter.Format(time.RFC3339))
		}
		if st.Expiring {
			log.Warn().Str("subject", st.Subject).Time("notAfter", st.NotAfter).Msg("TLS certificate expires soon")
		}
	}
	if !files.FileExists(cfg.Storage.Path) {
		log.Info().Str("path", cfg.Storage.Path).Msg("No registry file yet, it will be created on first write")
	}
	if !cfg.Auth.Enforce {
		log.Warn().Msg("Write routes are open: auth.enforce is off")
	}

	handler := api.NewServer(store, authn, api.Options{
		BaseURL:     cfg.Server.BaseURL,
		EnforceAuth: cfg.Auth.Enforce,
	}).Router()
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Bool("tls", cfg.Server.TLS()).
			Str("storage", cfg.Storage.Path).
			Msg("Server listening")
		if cfg.Server.TLS() {
			errCh <- srv.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, errors.ErrInternal, "server stopped")
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "shutdown")
	}
	return nil
}
