package img2pdf

import (
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfPostProcessor optimizes and verifies a written PDF.
type pdfPostProcessor interface {
	Optimize(path string) error
	PageCount(path string) (int, error)
}

// pdfcpuOnce keeps pdfcpu from creating its config directory under the
// user's home; it must run before the first configuration is built.
var pdfcpuOnce sync.Once

// pdfcpuProcessor implements pdfPostProcessor with pdfcpu.
type pdfcpuProcessor struct{}

func newPDFCPUProcessor() *pdfcpuProcessor {
	pdfcpuOnce.Do(api.DisableConfigDir)
	return &pdfcpuProcessor{}
}

// config returns a configuration whose output stays readable by parsers
// without object or cross-reference stream support.
func (p *pdfcpuProcessor) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// Optimize rewrites path in place, dropping duplicate and unused objects.
func (p *pdfcpuProcessor) Optimize(path string) error {
	if err := api.OptimizeFile(path, "", p.config()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOptimize, path, err)
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func (p *pdfcpuProcessor) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrPDFRead, path, err)
	}
	return n, nil
}

// verifyPageCount checks the file at path has exactly want pages.
func verifyPageCount(pp pdfPostProcessor, path string, want int) error {
	got, err := pp.PageCount(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s has %d pages, expected %d", ErrPageCount, path, got, want)
	}
	return nil
}
