// Package service exposes the cipher over a small HTTP API: address
// encryption and decryption as JSON endpoints plus whole-payload log
// anonymization. The API is glue around pkg/ipcrypt; all parse failures
// are rejected before the cipher runs.
package service

import (
	"io"
	"net/http"
	"net/netip"

	"github.com/labstack/echo/v4"

	"ipcrypt-go/pkg/ipcrypt"
	"ipcrypt-go/pkg/log"
	"ipcrypt-go/pkg/transform"
)

type Service struct {
	Api      *echo.Echo
	key      ipcrypt.Key
	pipeline *transform.Pipeline
}

type addrsRequest struct {
	Addrs []string `json:"addrs"`
}

type addrsResponse struct {
	Addrs []string `json:"addrs"`
}

func New(key ipcrypt.Key) (*Service, error) {
	pipeline, err := transform.NewPipeline([]transform.Transform{transform.NewIPCryptTransform(key)})
	if err != nil {
		return nil, err
	}

	api := echo.New()
	api.HideBanner = true

	s := &Service{
		Api:      api,
		key:      key,
		pipeline: pipeline,
	}

	api.GET("/healthz", s.Healthz)
	api.POST("/v1/encrypt", s.EncryptAddrs)
	api.POST("/v1/decrypt", s.DecryptAddrs)
	api.POST("/v1/anonymize", s.Anonymize)

	return s, nil
}

func (s *Service) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Service) EncryptAddrs(c echo.Context) error {
	return s.mapAddrs(c, ipcrypt.EncryptAddr)
}

func (s *Service) DecryptAddrs(c echo.Context) error {
	return s.mapAddrs(c, ipcrypt.DecryptAddr)
}

func (s *Service) mapAddrs(c echo.Context, f func(netip.Addr, ipcrypt.Key) (netip.Addr, error)) error {
	var req addrsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out := make([]string, 0, len(req.Addrs))
	for _, a := range req.Addrs {
		addr, err := netip.ParseAddr(a)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid address: "+a)
		}
		mapped, err := f(addr, s.key)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		out = append(out, mapped.String())
	}

	return c.JSON(http.StatusOK, addrsResponse{Addrs: out})
}

// Anonymize rewrites every IPv4 literal in the request body with its
// encrypted counterpart and returns the rewritten payload. With
// ?reverse=true the body is de-anonymized instead.
func (s *Service) Anonymize(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var out []byte
	if c.QueryParam("reverse") == "true" {
		out, err = s.pipeline.Reverse(body)
	} else {
		out, err = s.pipeline.Apply(body)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", out)
}

// Run starts the HTTP server and blocks.
func (s *Service) Run(addr string) error {
	log.Printf("service listening on %s", addr)
	return s.Api.Start(addr)
}
