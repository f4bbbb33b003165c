package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legatoproject/datahub/internal/adminservice"
	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
)

type configureObservationRequest struct {
	MinPeriod        float64  `json:"minPeriod"`
	ChangeBy         float64  `json:"changeBy"`
	LowLimit         *float64 `json:"lowLimit"`
	HighLimit        *float64 `json:"highLimit"`
	ExtractionSpec   string   `json:"extractionSpec"`
	Transform        string   `json:"transform"`
	BufferMaxCount   int      `json:"bufferMaxCount"`
	BackupPeriod     float64  `json:"backupPeriod"`
	DestinationLabel string   `json:"destinationLabel"`
}

type setSourceRequest struct {
	Source string `json:"source" binding:"required"`
}

type setDestinationRequest struct {
	Label string `json:"label" binding:"required"`
}

func registerAdminRoutes(r *gin.RouterGroup, svc *adminservice.Service) {
	r.POST("/observations/*path", func(c *gin.Context) {
		if err := svc.CreateObservation(c.Param("path")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	r.DELETE("/resources/*path", func(c *gin.Context) {
		if err := svc.DeleteResource(c.Param("path")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.PUT("/observation-config/*path", func(c *gin.Context) {
		var req configureObservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		transform, ok := resource.ParseTransform(req.Transform)
		if !ok {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		cfg := engine.ObservationConfig{
			MinPeriod:        req.MinPeriod,
			ChangeBy:         req.ChangeBy,
			ExtractionSpec:   req.ExtractionSpec,
			Transform:        transform,
			BufferMaxCount:   req.BufferMaxCount,
			BackupPeriod:     req.BackupPeriod,
			DestinationLabel: req.DestinationLabel,
		}
		if req.LowLimit != nil && req.HighLimit != nil {
			cfg.HasLimits = true
			cfg.LowLimit = *req.LowLimit
			cfg.HighLimit = *req.HighLimit
		}
		if err := svc.ConfigureObservation(c.Param("path"), cfg); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.PUT("/source/*path", func(c *gin.Context) {
		var req setSourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		if err := svc.SetSource(c.Param("path"), req.Source); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.PUT("/destination/*path", func(c *gin.Context) {
		var req setDestinationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		if err := svc.SetDestination(c.Param("path"), req.Label); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.PUT("/admin-push/*path", func(c *gin.Context) {
		var req pushRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		smp, err := decodePushSample(req)
		if err != nil {
			respondErr(c, err)
			return
		}
		if err := svc.PushAdmin(c.Param("path"), smp); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/barrier/start", func(c *gin.Context) {
		if err := svc.StartUpdate(); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/barrier/end", func(c *gin.Context) {
		if err := svc.EndUpdate(); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.PUT("/deletion-tracking", func(c *gin.Context) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		svc.EnableDeletionTracking(req.Enabled)
		c.Status(http.StatusNoContent)
	})
}

func decodePushSample(req pushRequest) (sample.Sample, error) {
	switch v := req.Value.(type) {
	case nil:
		return sample.NewTrigger(req.Timestamp), nil
	case bool:
		return sample.NewBool(req.Timestamp, v), nil
	case float64:
		return sample.NewNumeric(req.Timestamp, v), nil
	case string:
		return sample.NewString(req.Timestamp, v)
	default:
		raw, err := jsonMarshal(v)
		if err != nil {
			return sample.Sample{}, errors.ErrBadParameter
		}
		return sample.NewJSON(req.Timestamp, raw)
	}
}
