package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legatoproject/datahub/internal/configservice"
	"github.com/legatoproject/datahub/internal/errors"
)

func registerConfigRoutes(r *gin.RouterGroup, svc *configservice.Service) {
	r.PUT("", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		if err := svc.Load(data); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
