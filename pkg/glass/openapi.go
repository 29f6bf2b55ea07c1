// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package glass

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/pkg"
	"github.com/telekom/lookingglass/pkg/api"
	"gopkg.in/yaml.v3"
)

// Openapi returns the openapi document of the looking glass api
func (g *Glass) Openapi() (*openapi3.T, error) {
	reqSchema, err := openapi3gen.NewSchemaRefForValue(diagnoseRequest{}, openapi3.Schemas{})
	if err != nil {
		return nil, api.ErrCreateOpenapiSchema{Name: "diagnoseRequest", Err: err}
	}
	reqSchema.Value.Required = []string{"target", "method"}
	methods := make([]any, 0, len(g.kinds))
	for _, k := range g.kinds {
		methods = append(methods, k.String())
	}
	if m, ok := reqSchema.Value.Properties["method"]; ok && m.Value != nil && len(methods) > 0 {
		m.Value.Enum = methods
	}

	infoSchema, err := openapi3gen.NewSchemaRefForValue(info{}, openapi3.Schemas{})
	if err != nil {
		return nil, api.ErrCreateOpenapiSchema{Name: "info", Err: err}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Looking Glass API",
			Description: "Runs ping, traceroute and mtr against a target and streams the output",
			Version:     pkg.GetVersion(),
		},
		Paths: openapi3.NewPaths(),
	}

	diagnose := openapi3.NewOperation()
	diagnose.OperationID = "diagnose"
	diagnose.Summary = "Run a diagnostic and stream its output"
	diagnose.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithJSONSchemaRef(reqSchema).WithRequired(true),
	}
	diagnose.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Output of the diagnostic, streamed line by line").
				WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"})),
		}),
		openapi3.WithStatus(http.StatusBadRequest, textResponse("Invalid request")),
		openapi3.WithStatus(http.StatusInternalServerError, textResponse("The diagnostic could not be started")),
	)
	doc.AddOperation(pathDiagnose, http.MethodPost, diagnose)

	infoOp := openapi3.NewOperation()
	infoOp.OperationID = "info"
	infoOp.Summary = "Location and enabled methods of the looking glass"
	infoOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Looking glass information").
				WithJSONSchemaRef(infoSchema),
		}),
	)
	doc.AddOperation(pathInfo, http.MethodGet, infoOp)

	return doc, nil
}

func textResponse(desc string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(desc).
			WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"})),
	}
}

// handleOpenapi serves the openapi document as yaml, or as json if requested
func (g *Glass) handleOpenapi(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	doc, err := g.Openapi()
	if err != nil {
		log.ErrorContext(ctx, "Failed to create openapi document", "error", err)
		http.Error(w, "failed to create openapi document", http.StatusInternalServerError)
		return
	}

	var bb bytes.Buffer
	contentType := "text/yaml"
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		contentType = "application/json"
		err = json.NewEncoder(&bb).Encode(doc)
	} else {
		err = yaml.NewEncoder(&bb).Encode(doc)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to encode openapi document", "error", err)
		http.Error(w, "failed to encode openapi document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(bb.Bytes()); err != nil {
		log.ErrorContext(ctx, "Failed to write openapi document", "error", err)
	}
}
