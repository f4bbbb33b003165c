package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/ioservice"
	"github.com/legatoproject/datahub/internal/sample"
)

// clientNamespace extracts the calling client's namespace from the
// X-Client-Namespace header, defaulting to "default" for ad hoc
// callers that never issued a set_namespace call.
func clientNamespace(c *gin.Context) string {
	if ns := c.GetHeader("X-Client-Namespace"); ns != "" {
		return ns
	}
	return "default"
}

// ioPath returns the route's path parameter without the leading "/"
// that gin's catch-all segment carries, so it resolves relative to
// the client namespace.
func ioPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

func respondErr(c *gin.Context, err error) {
	c.JSON(errors.HTTPStatus(err), gin.H{
		"error": errors.GetErrorCodeString(err),
		"detail": err.Error(),
	})
}

type createResourceRequest struct {
	DataType string `json:"dataType" binding:"required"`
	Units    string `json:"units"`
}

type pushRequest struct {
	Timestamp float64     `json:"timestamp"`
	Value     interface{} `json:"value"`
}

func registerIORoutes(r *gin.RouterGroup, ioFor func(namespace string) *ioservice.Service) {
	r.POST("/namespace", func(c *gin.Context) {
		var req struct {
			Namespace string `json:"namespace" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		svc := ioFor(clientNamespace(c))
		if err := svc.SetNamespace(req.Namespace); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/inputs/*path", func(c *gin.Context) { createIOResource(c, ioFor, true) })
	r.POST("/outputs/*path", func(c *gin.Context) { createIOResource(c, ioFor, false) })
	r.DELETE("/resources/*path", func(c *gin.Context) {
		svc := ioFor(clientNamespace(c))
		if err := svc.DeleteResource(ioPath(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/outputs-optional/*path", func(c *gin.Context) {
		svc := ioFor(clientNamespace(c))
		if err := svc.MarkOptional(ioPath(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.PUT("/values/*path", func(c *gin.Context) { pushValue(c, ioFor) })
	r.GET("/values/*path", func(c *gin.Context) { getValue(c, ioFor) })
	r.PUT("/defaults/*path", func(c *gin.Context) { setDefault(c, ioFor) })
}

func createIOResource(c *gin.Context, ioFor func(string) *ioservice.Service, input bool) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errors.ErrBadParameter)
		return
	}
	dt, ok := sample.ParseType(req.DataType)
	if !ok {
		respondErr(c, errors.ErrBadParameter)
		return
	}
	svc := ioFor(clientNamespace(c))
	path := ioPath(c)
	var err error
	if input {
		err = svc.CreateInput(path, dt, req.Units)
	} else {
		err = svc.CreateOutput(path, dt, req.Units)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func pushValue(c *gin.Context, ioFor func(string) *ioservice.Service) {
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errors.ErrBadParameter)
		return
	}
	svc := ioFor(clientNamespace(c))
	path := ioPath(c)

	var err error
	switch v := req.Value.(type) {
	case nil:
		err = svc.PushTrigger(path, req.Timestamp)
	case bool:
		err = svc.PushBool(path, req.Timestamp, v)
	case float64:
		err = svc.PushNumeric(path, req.Timestamp, v)
	case string:
		err = svc.PushString(path, req.Timestamp, v)
	default:
		raw, marshalErr := jsonMarshal(v)
		if marshalErr != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		err = svc.PushJSON(path, req.Timestamp, raw)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getValue(c *gin.Context, ioFor func(string) *ioservice.Service) {
	svc := ioFor(clientNamespace(c))
	path := ioPath(c)

	ts, err := svc.GetTimestamp(path)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := gin.H{"timestamp": ts}
	if v, err := svc.GetBool(path); err == nil {
		resp["type"] = "bool"
		resp["value"] = v
	} else if v, err := svc.GetNumeric(path); err == nil {
		resp["type"] = "numeric"
		resp["value"] = v
	} else if v, err := svc.GetString(path); err == nil {
		resp["type"] = "string"
		resp["value"] = v
	} else if v, err := svc.GetJSON(path); err == nil {
		resp["type"] = "json"
		resp["value"] = jsonRaw(v)
	} else {
		resp["type"] = "trigger"
	}
	c.JSON(http.StatusOK, resp)
}

func setDefault(c *gin.Context, ioFor func(string) *ioservice.Service) {
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errors.ErrBadParameter)
		return
	}
	svc := ioFor(clientNamespace(c))
	path := ioPath(c)

	var err error
	switch v := req.Value.(type) {
	case bool:
		err = svc.SetBoolDefault(path, v)
	case float64:
		err = svc.SetNumericDefault(path, v)
	case string:
		err = svc.SetStringDefault(path, v)
	default:
		raw, marshalErr := jsonMarshal(v)
		if marshalErr != nil {
			respondErr(c, errors.ErrBadParameter)
			return
		}
		err = svc.SetJSONDefault(path, raw)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
