package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/queryservice"
)

func registerQueryRoutes(r *gin.RouterGroup, svc *queryservice.Service) {
	r.GET("/values/*path", func(c *gin.Context) {
		v, err := svc.Get(c.Param("path"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"timestamp": v.Timestamp(),
			"type":      v.Type().String(),
			"value":     jsonRaw(v.JSONForm()),
		})
	})

	r.GET("/buffer/*path", func(c *gin.Context) {
		samples, err := svc.BufferedSamples(c.Param("path"))
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]gin.H, 0, len(samples))
		for _, s := range samples {
			out = append(out, gin.H{
				"timestamp": s.Timestamp(),
				"value":     jsonRaw(s.JSONForm()),
			})
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/stat/*path", func(c *gin.Context) {
		op := c.Query("op")
		startTime, _ := strconv.ParseFloat(c.DefaultQuery("since", "0"), 64)
		v, err := svc.Stat(c.Param("path"), op, startTime)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"value": v})
	})

	r.GET("/snapshot/*path", func(c *gin.Context) {
		since, _ := strconv.ParseFloat(c.DefaultQuery("since", "0"), 64)
		flags := engine.SnapshotFlags{FlushDeletionsAfter: c.Query("flushDeletions") == "true"}

		c.Header("Content-Type", "application/json")
		if err := svc.Snapshot(c.Param("path"), since, flags, engine.FormatJSON, c.Writer); err != nil {
			respondErr(c, err)
			return
		}
	})
}
