package importer

import (
	"archive/zip"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"hostelpass/internal/errors"
)

const sharedStringsPath = "xl/sharedStrings.xml"

// workbook is an opened .xlsx archive with its shared string table loaded.
type workbook struct {
	zr      *zip.Reader
	strings []string
}

func openWorkbook(r io.ReaderAt, size int64) (*workbook, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrImport, "open workbook")
	}
	wb := &workbook{zr: zr}
	doc, found, err := wb.document(sharedStringsPath)
	if err != nil {
		return nil, err
	}
	if found {
		for _, si := range doc.FindElements("//si") {
			var sb strings.Builder
			for _, t := range si.FindElements(".//t") {
				sb.WriteString(t.Text())
			}
			wb.strings = append(wb.strings, sb.String())
		}
	}
	return wb, nil
}

func (wb *workbook) document(name string) (*etree.Document, bool, error) {
	for _, f := range wb.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, errors.Wrapf(err, errors.ErrImport, "open %s", name)
		}
		defer rc.Close()
		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(rc); err != nil {
			return nil, false, errors.Wrapf(err, errors.ErrImport, "parse %s", name)
		}
		return doc, true, nil
	}
	return nil, false, nil
}

// rows returns the sheet's data rows keyed by header. The first non-empty
// row supplies the headers; columns with an empty header are dropped.
func (wb *workbook) rows(sheet string) ([]map[string]string, error) {
	doc, found, err := wb.document(sheet)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Newf(errors.ErrImport, "worksheet %s not found", sheet)
	}

	var headers []string
	var out []map[string]string
	for _, row := range doc.FindElements("//sheetData/row") {
		values := map[int]string{}
		maxIndex := -1
		for _, c := range row.SelectElements("c") {
			idx := columnIndex(c.SelectAttrValue("r", ""))
			if idx < 0 {
				continue
			}
			values[idx] = wb.cellValue(c)
			if idx > maxIndex {
				maxIndex = idx
			}
		}
		if maxIndex < 0 {
			continue
		}
		if headers == nil {
			headers = make([]string, maxIndex+1)
			for i := range headers {
				headers[i] = values[i]
			}
			continue
		}
		entry := make(map[string]string, len(headers))
		for i, h := range headers {
			if h != "" {
				entry[h] = values[i]
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (wb *workbook) cellValue(c *etree.Element) string {
	switch c.SelectAttrValue("t", "") {
	case "s":
		v := c.SelectElement("v")
		if v == nil {
			return ""
		}
		i, err := strconv.Atoi(strings.TrimSpace(v.Text()))
		if err != nil || i < 0 || i >= len(wb.strings) {
			return ""
		}
		return wb.strings[i]
	case "inlineStr":
		if t := c.FindElement("is/t"); t != nil {
			return t.Text()
		}
		return ""
	}
	if v := c.SelectElement("v"); v != nil {
		return v.Text()
	}
	return ""
}

// columnIndex turns a cell reference such as "AB12" into a zero-based column.
// It returns -1 when the reference carries no letters.
func columnIndex(ref string) int {
	idx := 0
	for _, ch := range strings.ToUpper(ref) {
		if ch < 'A' || ch > 'Z' {
			continue
		}
		idx = idx*26 + int(ch-'A'+1)
	}
	return idx - 1
}
