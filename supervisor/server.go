// Copyright (c) 2022 IndyKite
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/sqlschema/migrate/migrator"
)

type httpServer struct {
	controller   *Controller
	log, httpLog logrus.FieldLogger
	srv          *http.Server
}

// buildRouter wires every route to its handler. Split out from
// runHTTPServer so tests can exercise the routes via httptest without
// binding a real TCP listener.
func (s *httpServer) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/status", s.statusHandler)
	g.GET("/version", s.versionHandler)
	g.POST("/migrate", s.migrateHandler)
	g.POST("/migrate/:version", s.migrateToHandler)
	g.POST("/delete", s.deleteHandler)
	g.GET("/plan/:from/:to", s.planHandler)
	g.NoRoute(s.error404)
	return g
}

func runHTTPServer(ctx context.Context, c *Controller, logger logrus.FieldLogger) *httpServer {
	s := &httpServer{
		controller: c,
		log:        logger,
		httpLog:    logger.WithField(ComponentLogKey, "http"),
	}

	g := s.buildRouter()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.cfg.Supervisor.Port),
		Handler:           g,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.httpLog.WithError(err).Fatal("serve failed")
		}
	}()

	return s
}

func (s *httpServer) close() error {
	return s.srv.Close()
}

func (s *httpServer) statusHandler(c *gin.Context) {
	code := http.StatusOK
	dbErr := s.controller.db.PingContext(c.Request.Context())
	if dbErr != nil {
		code = http.StatusServiceUnavailable
	}

	current, err := s.controller.engine.CurrentVersion(c.Request.Context())
	c.JSON(code, gin.H{
		"database_reachable": dbErr == nil,
		"current_version":    current.String(),
		"error":              errString(err),
	})
}

func (s *httpServer) versionHandler(c *gin.Context) {
	current, err := s.controller.engine.CurrentVersion(c.Request.Context())
	if err != nil {
		s.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": current.String()})
}

func (s *httpServer) migrateHandler(c *gin.Context) {
	s.httpLog.WithField("req", c.Request.RequestURI).Debug("dispatching request")
	if err := s.controller.engine.Migrate(c.Request.Context()); err != nil {
		s.sendError(c, err)
		return
	}
	s.versionHandler(c)
}

func (s *httpServer) migrateToHandler(c *gin.Context) {
	s.httpLog.WithField("req", c.Request.RequestURI).Debug("dispatching request")
	target, err := migrator.ParseVersion(c.Param("version"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.controller.engine.MigrateTo(c.Request.Context(), target); err != nil {
		s.sendError(c, err)
		return
	}
	s.versionHandler(c)
}

func (s *httpServer) deleteHandler(c *gin.Context) {
	s.httpLog.WithField("req", c.Request.RequestURI).Debug("dispatching request")
	if err := s.controller.bootstrap.FullDeleteSchema(c.Request.Context()); err != nil {
		s.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "schema deleted"})
}

func (s *httpServer) planHandler(c *gin.Context) {
	from, err := migrator.ParseVersion(c.Param("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := migrator.ParseVersion(c.Param("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edges, err := s.controller.engine.Plan(from, to)
	if err != nil {
		s.sendError(c, err)
		return
	}

	// Marshaled with goccy/go-json directly, rather than gin's c.JSON, since
	// Edge is a plain value type with no gin-specific rendering needs.
	body, err := json.Marshal(gin.H{"edges": edges})
	if err != nil {
		s.sendError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *httpServer) error404(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": "not found"})
}

func (s *httpServer) sendError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": err.Error()})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
