package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"mav.press/pressroom/internal/langdetect"
	"mav.press/pressroom/internal/language"
	"mav.press/pressroom/internal/payloadschema"
	"mav.press/pressroom/internal/translation"
)

const maxTranslateBodyBytes = 64 * 1024

// translateResponse is the wire shape the press-release client consumes.
// It is deliberately not jsend-wrapped.
type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	TimeMs         int64  `json:"timeMs"`
	Source         string `json:"source"`
	IsFallback     bool   `json:"isFallback,omitempty"`
	Note           string `json:"note,omitempty"`
}

type translateErrorResponse struct {
	Error          string `json:"error"`
	TranslatedText string `json:"translatedText,omitempty"`
}

func (s *Server) handleTranslate(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxTranslateBodyBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, translateErrorResponse{Error: "failed to read request body"})
	}

	req, err := payloadschema.ValidateTranslateRequest(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, translateErrorResponse{Error: err.Error()})
	}

	sourceLang := language.NormalizeCode(req.SourceLang)
	if sourceLang == "" {
		sourceLang = langdetect.DetectOrDefault(req.Text, translation.PivotLang)
	}

	targetLang := language.NormalizeCode(req.TargetLang)
	if targetLang != translation.PivotLang && !translation.IsSupportedLanguage(targetLang) {
		return c.JSON(http.StatusBadRequest, translateErrorResponse{
			Error: "unsupported target language: " + req.TargetLang,
		})
	}

	result, err := s.translator.Translate(c.Request().Context(), translation.Request{
		Text:       req.Text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	if err != nil {
		if errors.Is(err, translation.ErrInvalidRequest) {
			return c.JSON(http.StatusBadRequest, translateErrorResponse{Error: err.Error()})
		}
		s.logger.Error().Err(err).Str("target_lang", targetLang).Msg("translate request failed")
		return c.JSON(http.StatusInternalServerError, translateErrorResponse{
			Error:          "translation failed",
			TranslatedText: req.Text,
		})
	}

	resp := translateResponse{
		TranslatedText: result.Text,
		TimeMs:         result.LatencyMs,
		Source:         result.Provider,
		IsFallback:     result.Fallback,
		Note:           result.Note,
	}

	// A degraded result still carries the original text; 503 tells the
	// client the provider chain is exhausted rather than the input invalid.
	if result.Fallback {
		resp.TimeMs = 0
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTranslateHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"hasCredential": s.opts.HasProviderCredential,
	})
}
