package server

import (
	"net/http"
	"time"

	"github.com/danmuck/meshdecode/internal/hexinput"
	"github.com/danmuck/meshdecode/internal/pipeline"
	"github.com/danmuck/meshdecode/internal/psk"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type decodeRequest struct {
	Envelope string `json:"envelope" binding:"required"`
	PSK      string `json:"psk"`
	Expected string `json:"expected"`
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.ID,
			"version": "0.1.0",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/decode", func(c *gin.Context) {
		var body decodeRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		raw, err := hexinput.Parse(body.Envelope)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req := pipeline.Request{Expected: body.Expected}
		if body.PSK != "" {
			key, err := psk.Resolve(body.PSK)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			req.Key = key.Bytes
		}

		res := s.decoder.Decode(raw, req)
		met, checked := res.ExpectationMet()
		c.JSON(http.StatusOK, gin.H{
			"result":   res,
			"readable": res.Readable(),
			"matched":  met,
			"checked":  checked,
		})
	})
}
