package bootstrap

import (
	"fmt"
	"html/template"
	"os"
	"time"

	httpapi "github.com/GoSim-25-26J-441/hr-copilot/internal/api/http"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/api/http/middleware"
	copilothttp "github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/http"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"github.com/GoSim-25-26J-441/hr-copilot/web/templates"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	StaticDir      string
	AllowedOrigins []string

	Answerer copilothttp.Answerer
	Index    httpapi.IndexStatus
	Checks   map[string]httpapi.Check

	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Templates overrides the embedded pages.
	Templates *template.Template
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	if dep.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(dep.Metrics))
	}

	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  dep.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	tmpl := dep.Templates
	if tmpl == nil {
		var err error
		if tmpl, err = templates.Parse(); err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
	}
	r.SetHTMLTemplate(tmpl)

	if dep.StaticDir != "" {
		if info, err := os.Stat(dep.StaticDir); err == nil && info.IsDir() {
			r.Static("/static", dep.StaticDir)
		} else if dep.Logger != nil {
			dep.Logger.Warn("static directory not found, /static disabled", zap.String("dir", dep.StaticDir))
		}
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Index, dep.Checks)
	healthHandler.RegisterRoutes(r)

	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}

	copilothttp.New(dep.Answerer).Register(r)

	return r, nil
}
