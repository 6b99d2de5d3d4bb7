package api

import (
	"bytes"
	"fmt"
	"net/http"

	"alcyxob/gymledger/internal/ledger"
	"alcyxob/gymledger/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService service.ReportService
	log           *zap.Logger
}

func NewReportHandler(reportService service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, log: log}
}

// window reads ?window=&date=&start=&end=; WEEKLY when window is absent.
func window(c *gin.Context) (ledger.Window, error) {
	return ledger.ParseWindow(c.Query("window"), c.Query("date"), c.Query("start"), c.Query("end"))
}

// GetReport godoc
// @Summary Financial report of a gym
// @Description Totals per category, supplement product breakdown, chart series and the sales inside the window.
// @Tags Reports
// @Produce json
// @Param window query string false "DAILY, WEEKLY, MONTHLY, DATE or RANGE"
// @Param date query string false "YYYY-MM-DD, for DATE"
// @Param start query string false "YYYY-MM-DD, for RANGE"
// @Param end query string false "YYYY-MM-DD, for RANGE"
// @Success 200 {object} service.SalesReport
// @Failure 400 {object} gin.H "Invalid window"
// @Router /gyms/{gymId}/reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	w, err := window(c)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	report, err := h.reportService.Report(c.Request.Context(), c.Param("gymId"), w)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportSales handles GET /gyms/:gymId/reports/sales.csv
func (h *ReportHandler) ExportSales(c *gin.Context) {
	w, err := window(c)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if _, err := h.reportService.ExportCSV(c.Request.Context(), c.Param("gymId"), w, &buf); err != nil {
		respondWithError(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("sales-%s-%s.csv", c.Param("gymId"), w.Describe())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
