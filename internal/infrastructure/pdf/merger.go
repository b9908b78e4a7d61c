package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jhoicas/l10n-ch-billing/internal/application/report"
)

var _ report.PDFMerger = (*PdfcpuMerger)(nil)

// PdfcpuMerger concatena PDF en memoria con pdfcpu.
type PdfcpuMerger struct {
	conf *model.Configuration
}

// NewPdfcpuMerger construye el merger con la configuración por defecto de pdfcpu.
func NewPdfcpuMerger() *PdfcpuMerger {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuMerger{conf: conf}
}

// Merge une las páginas de docs en orden. Con un solo documento lo devuelve tal cual.
func (m *PdfcpuMerger) Merge(docs ...[]byte) ([]byte, error) {
	switch len(docs) {
	case 0:
		return nil, fmt.Errorf("pdf: nada que unir")
	case 1:
		return docs[0], nil
	}
	readers := make([]io.ReadSeeker, 0, len(docs))
	for _, d := range docs {
		readers = append(readers, bytes.NewReader(d))
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, m.conf); err != nil {
		return nil, fmt.Errorf("pdf: unir documentos: %w", err)
	}
	return out.Bytes(), nil
}
