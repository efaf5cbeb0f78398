package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed translate_request.schema.json
var translateRequestSchemaJSON string

//go:embed monitor_config.schema.json
var monitorConfigSchemaJSON string

// TranslateRequest is the validated body of a translation call.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang,omitempty"`
	TargetLang string `json:"targetLang"`
}

// MonitorConfig is the validated body of a monitor reconfiguration call.
type MonitorConfig struct {
	Client          string   `json:"client,omitempty"`
	Keywords        []string `json:"keywords"`
	IntervalSeconds int      `json:"interval_seconds,omitempty"`
}

var (
	compileOnce        sync.Once
	translateSchema    *jsonschema.Schema
	monitorSchema      *jsonschema.Schema
	compiledSchemasErr error
)

func ValidateTranslateRequest(payload json.RawMessage) (*TranslateRequest, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, _, err := loadSchemas()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var req TranslateRequest
	if err := remarshal(value, &req); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text must not be empty")
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return nil, fmt.Errorf("targetLang must not be empty")
	}

	return &req, nil
}

func ValidateMonitorConfig(payload json.RawMessage) (*MonitorConfig, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	_, schema, err := loadSchemas()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var cfg MonitorConfig
	if err := remarshal(value, &cfg); err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(cfg.Keywords))
	for i, keyword := range cfg.Keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			return nil, fmt.Errorf("keywords[%d] must not be empty", i)
		}
		keywords = append(keywords, trimmed)
	}
	cfg.Keywords = keywords

	return &cfg, nil
}

func loadSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		resources := map[string]string{
			"translate_request.schema.json": translateRequestSchemaJSON,
			"monitor_config.schema.json":    monitorConfigSchemaJSON,
		}
		for name, body := range resources {
			if err := compiler.AddResource(name, strings.NewReader(body)); err != nil {
				compiledSchemasErr = fmt.Errorf("add schema resource %s: %w", name, err)
				return
			}
		}

		translate, err := compiler.Compile("translate_request.schema.json")
		if err != nil {
			compiledSchemasErr = fmt.Errorf("compile translate schema: %w", err)
			return
		}
		monitor, err := compiler.Compile("monitor_config.schema.json")
		if err != nil {
			compiledSchemasErr = fmt.Errorf("compile monitor schema: %w", err)
			return
		}

		translateSchema = translate
		monitorSchema = monitor
	})

	if compiledSchemasErr != nil {
		return nil, nil, compiledSchemasErr
	}
	if translateSchema == nil || monitorSchema == nil {
		return nil, nil, fmt.Errorf("schemas not initialized")
	}
	return translateSchema, monitorSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func remarshal(value any, target any) error {
	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize payload JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, target); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}
