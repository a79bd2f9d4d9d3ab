package ui

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goab/adapters/excel"
	"goab/app"
	"goab/domain/abtest"
	"goab/domain/core"
	"goab/internal/errors"
)

type powerRequest struct {
	BaselineRate float64 `json:"baseline_rate" binding:"required"`
	MDE          float64 `json:"mde" binding:"required"`
	Alpha        float64 `json:"alpha"`
	Power        float64 `json:"power"`
}

type srmRequest struct {
	NControl      int     `json:"n_control"`
	NTreatment    int     `json:"n_treatment"`
	ExpectedSplit float64 `json:"expected_split"`
	Alpha         float64 `json:"alpha"`
}

type countsRequest struct {
	NControl        int     `json:"n_control" binding:"required"`
	ConvControl     int     `json:"conv_control"`
	NTreatment      int     `json:"n_treatment" binding:"required"`
	ConvTreatment   int     `json:"conv_treatment"`
	Alpha           float64 `json:"alpha"`
	ExpectedSplit   float64 `json:"expected_split"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	MonthlyVisitors int     `json:"monthly_visitors"`
}

type revenueRequest struct {
	RateControl     float64 `json:"rate_control"`
	RateTreatment   float64 `json:"rate_treatment"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	MonthlyVisitors int     `json:"monthly_visitors"`
}

func (r *countsRequest) observations() (control, treatment abtest.RateObservation) {
	control = abtest.RateObservation{Successes: r.ConvControl, Trials: r.NControl}
	treatment = abtest.RateObservation{Successes: r.ConvTreatment, Trials: r.NTreatment}
	return control, treatment
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePower(c *gin.Context) {
	var req powerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	spec := abtest.PowerSpec{
		BaselineRate: req.BaselineRate,
		MDE:          req.MDE,
		Alpha:        s.alphaOrDefault(req.Alpha),
		Power:        req.Power,
	}
	if spec.Power == 0 {
		spec.Power = s.cfg.Engine.Power
	}
	res, err := s.power.CalculateSampleSize(spec)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSRM(c *gin.Context) {
	var req srmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	res, err := s.srm.CheckSRM(req.NControl, req.NTreatment,
		s.splitOrDefault(req.ExpectedSplit), s.alphaOrDefault(req.Alpha))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleZTest(c *gin.Context) {
	var req countsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	control, treatment := req.observations()
	res, err := s.freq.RunZTest(control, treatment, s.alphaOrDefault(req.Alpha))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleBayes(c *gin.Context) {
	var req countsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	control, treatment := req.observations()
	res, err := s.bayes.BayesianABTest(control, treatment)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleRevenue(c *gin.Context) {
	var req revenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	res, err := s.revenue.RevenueImpact(req.RateControl, req.RateTreatment,
		req.AvgOrderValue, req.MonthlyVisitors)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	res, err := s.runPipeline(c)
	if err != nil {
		if err == app.ErrSRMBlocked {
			// The diagnostic goes back with the refusal so the analyst can
			// see what broke.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
				"code":  errors.GetCode(err),
				"srm":   res.SRM,
			})
			return
		}
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleReportCSV(c *gin.Context) {
	res, err := s.runPipeline(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	raw, err := res.Summary.CSV()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ab_test_report.csv"`)
	c.Data(http.StatusOK, "text/csv", raw)
}

func (s *Server) handleReportHTML(c *gin.Context) {
	res, err := s.runPipeline(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", res.Summary.HTML())
}

func (s *Server) runPipeline(c *gin.Context) (*app.AnalysisResult, error) {
	var req countsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	control, treatment := req.observations()
	return s.service.Run(control, treatment, app.AnalysisParams{
		Alpha:           s.alphaOrDefault(req.Alpha),
		ExpectedSplit:   s.splitOrDefault(req.ExpectedSplit),
		AvgOrderValue:   req.AvgOrderValue,
		MonthlyVisitors: req.MonthlyVisitors,
	})
}

func (s *Server) handleDatasetUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("missing dataset file"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		s.respondError(c, errors.InvalidInput("dataset must be .csv or .xlsx"))
		return
	}

	if err := os.MkdirAll(s.cfg.Data.UploadDir, 0o755); err != nil {
		s.respondError(c, errors.Wrap(err, "failed to prepare upload directory"))
		return
	}

	uploadID := uuid.NewString()
	path := filepath.Join(s.cfg.Data.UploadDir, uploadID+ext)
	if err := c.SaveUploadedFile(file, path); err != nil {
		s.respondError(c, errors.Wrap(err, "failed to store dataset"))
		return
	}

	agg, err := excel.NewDataReader(path).ReadAggregates()
	if err != nil {
		s.respondError(c, errors.DatasetError("failed to aggregate dataset", err))
		return
	}

	s.logger.Info("dataset %s aggregated: %d rows, control %d/%d, treatment %d/%d",
		uploadID, agg.Rows,
		agg.Control.Successes, agg.Control.Trials,
		agg.Treatment.Successes, agg.Treatment.Trials)

	c.JSON(http.StatusOK, gin.H{
		"upload_id":  uploadID,
		"aggregates": agg,
	})
}

func (s *Server) alphaOrDefault(alpha float64) float64 {
	if alpha == 0 {
		return s.cfg.Engine.Alpha
	}
	return alpha
}

func (s *Server) splitOrDefault(split float64) float64 {
	if split == 0 {
		return s.cfg.Engine.ExpectedSplit
	}
	return split
}

// respondError maps the engine's error taxonomy onto HTTP statuses. Domain
// contract violations are the caller's problem; everything else is ours.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsDomainError(err):
		status = http.StatusBadRequest
	case errors.GetCode(err) == errors.CodeInvalidInput,
		errors.GetCode(err) == errors.CodeDatasetError:
		status = http.StatusBadRequest
	case errors.GetCode(err) == errors.CodeSRMBlocked:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
