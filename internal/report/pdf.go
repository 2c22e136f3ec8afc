// Package report produce los documentos PDF de diagnóstico y de acta de
// baja. Es sólo lectura y formato: no toca la base de datos y todo campo
// ausente degrada a un marcador explícito.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gestion-activos/internal/evidence"
	"gestion-activos/internal/models"

	"github.com/go-pdf/fpdf"
)

// Placeholder sustituye cualquier campo nulo o vacío en los documentos.
const Placeholder = "N/D"

func orND(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func dateOrND(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format("2006-01-02")
}

type doc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDoc(title string) *doc {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr("Sistema de Gestión de Activos Fijos"), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10,
			tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	return &doc{pdf: pdf, tr: tr}
}

func (d *doc) section(title string) {
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.SetFillColor(230, 230, 230)
	d.pdf.CellFormat(0, 7, d.tr(title), "1", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

func (d *doc) field(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.CellFormat(55, 6, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.MultiCell(0, 6, d.tr(orND(value)), "", "L", false)
}

func (d *doc) paragraph(text string) {
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.MultiCell(0, 5, d.tr(orND(text)), "", "L", false)
	d.pdf.Ln(2)
}

func (d *doc) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *doc) assetSection(a models.Asset) {
	d.section("Datos del activo")
	d.field("Marca / Modelo", strings.TrimSpace(orND(a.Brand)+" / "+orND(a.ModelName)))
	d.field("Número de serie", a.SerialNumber)
	d.field("Categoría", a.Category.Name)
	d.field("Área", a.Area.Name)
	d.field("Departamento", a.Area.Department)
	d.field("Resguardante", a.OwnerName)
	d.field("Estado", a.Status)
	d.pdf.Ln(2)
}

// DiagnosticData reúne el diagnóstico ya cargado con sus relaciones, la
// evidencia del almacén de archivos y la firma de consumo único.
type DiagnosticData struct {
	Diagnostic   models.Diagnostic
	Decommission *models.Decommission
	Signature    string
	Images       []evidence.Image
	ShowSpecs    bool
}

func RenderDiagnostic(data DiagnosticData) ([]byte, error) {
	diag := data.Diagnostic
	d := newDoc("Reporte de Diagnóstico Técnico")

	d.section("Incidencia")
	d.field("Folio de incidencia", fmt.Sprintf("INC-%06d", diag.IncidenceID))
	d.field("Descripción", diag.Incidence.Description)
	d.field("Estado", string(diag.Incidence.Status))
	d.field("Prioridad", diag.Incidence.Priority)
	d.pdf.Ln(2)

	d.assetSection(diag.Asset)

	d.section("Diagnóstico")
	d.field("Fecha", diag.DiagnosticDate.Format("2006-01-02"))
	d.field("Técnico", diag.Technician.FullName)
	d.field("Tiempo de uso", diag.UsageTime)
	d.paragraph(diag.Narrative)

	if data.ShowSpecs {
		d.section("Especificaciones técnicas")
		d.field("Procesador", diag.Processor)
		d.field("Memoria RAM", diag.RAM)
		d.field("Almacenamiento", diag.Storage)
		d.pdf.Ln(2)
	}

	if data.Decommission != nil {
		d.section("Propuesta de baja")
		d.field("Motivo", diag.Motive)
		d.field("Autoriza", diag.AuthorizedBy)
		d.field("Observaciones", diag.Observations)
		d.field("Fecha de baja", data.Decommission.Date.Format("2006-01-02"))
		d.pdf.Ln(2)
	}

	if len(data.Images) > 0 {
		d.section("Evidencia fotográfica")
		d.embedImages(data.Images)
	}

	d.section("Firma del técnico")
	d.field("Nombre y firma", data.Signature)

	return d.output()
}

// DecommissionData reúne el acta de baja con sus relaciones ya cargadas.
type DecommissionData struct {
	Decommission models.Decommission
	Folio        string
}

func RenderDecommission(data DecommissionData) ([]byte, error) {
	baja := data.Decommission
	d := newDoc("Acta de Baja de Activo Fijo")

	d.section("Acta")
	d.field("Folio", data.Folio)
	d.field("Fecha de baja", baja.Date.Format("2006-01-02"))
	d.field("Reimpresión", dateOrND(baja.ReprintedAt))
	d.pdf.Ln(2)

	d.assetSection(baja.Asset)

	d.section("Diagnóstico que sustenta la baja")
	d.field("Fecha", baja.Diagnostic.DiagnosticDate.Format("2006-01-02"))
	d.field("Técnico", baja.Diagnostic.Technician.FullName)
	d.field("Motivo", baja.Diagnostic.Motive)
	d.field("Autoriza", baja.Diagnostic.AuthorizedBy)
	d.field("Observaciones", baja.Diagnostic.Observations)
	d.paragraph(baja.Diagnostic.Narrative)

	return d.output()
}

func (d *doc) embedImages(images []evidence.Image) {
	const w = 55.0
	x := d.pdf.GetX()

	for i, img := range images {
		var imgType string
		switch img.Ext {
		case "png":
			imgType = "PNG"
		case "jpg", "jpeg":
			imgType = "JPG"
		default:
			// fpdf no decodifica webp; se deja constancia en texto
			d.pdf.SetFont("Helvetica", "I", 8)
			d.pdf.CellFormat(0, 5,
				d.tr(fmt.Sprintf("Evidencia %d: formato %s no imprimible", i+1, img.Ext)),
				"", 1, "L", false, 0, "")
			continue
		}

		name := fmt.Sprintf("evidencia-%02d", i+1)
		d.pdf.RegisterImageOptionsReader(name,
			fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(img.Data))
		if d.pdf.Err() {
			// imagen corrupta: marcador en lugar de abortar el documento
			d.pdf.ClearError()
			d.pdf.SetFont("Helvetica", "I", 8)
			d.pdf.CellFormat(0, 5,
				d.tr(fmt.Sprintf("Evidencia %d: no legible", i+1)),
				"", 1, "L", false, 0, "")
			continue
		}

		if d.pdf.GetY() > 230 {
			d.pdf.AddPage()
		}
		d.pdf.ImageOptions(name, x, d.pdf.GetY(), w, 0, true,
			fpdf.ImageOptions{ImageType: imgType}, 0, "")
		d.pdf.Ln(3)
	}
	d.pdf.Ln(2)
}
