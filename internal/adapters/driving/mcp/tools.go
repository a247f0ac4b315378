package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/services"
)

// OverviewInput is the input schema for the session_overview tool.
type OverviewInput struct{}

// OverviewOutput is the output schema for the session_overview tool.
type OverviewOutput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	SpinSystems []SystemOutput `json:"spin_systems"`
	Methods     []MethodOutput `json:"methods"`
}

// SystemOutput is one spin-system overview row.
type SystemOutput struct {
	Index     int     `json:"index"`
	Name      string  `json:"name,omitempty"`
	Abundance float64 `json:"abundance"`
	SiteCount int     `json:"site_count"`
	Isotopes  string  `json:"isotopes"`
}

// MethodOutput is one method overview row.
type MethodOutput struct {
	Index          int     `json:"index"`
	Name           string  `json:"name,omitempty"`
	Channels       string  `json:"channels"`
	FluxDensityT   float64 `json:"magnetic_flux_density_T"`
	RotorFreqKHz   float64 `json:"rotor_frequency_kHz"`
	HasExperiment  bool    `json:"has_experiment"`
	DimensionCount int     `json:"dimension_count"`
}

// ImportInput is the input schema for the import_session tool.
type ImportInput struct {
	Document string `json:"document" jsonschema:"the session document as raw JSON text"`
}

// ImportOutput is the output schema for the import_session tool.
type ImportOutput struct {
	Name        string `json:"name"`
	SystemCount int    `json:"system_count"`
	MethodCount int    `json:"method_count"`
}

// ListMethodsInput is the input schema for the list_methods tool.
type ListMethodsInput struct{}

// ListMethodsOutput is the output schema for the list_methods tool.
type ListMethodsOutput struct {
	Methods []MethodOutput `json:"methods"`
	Count   int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session_overview",
		Description: "Summarise the loaded simulation session: sample info, spin systems and methods",
	}, s.handleOverview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_session",
		Description: "Replace the session with a document given as raw JSON",
	}, s.handleImport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_methods",
		Description: "List the measurement methods of the loaded session",
	}, s.handleListMethods)
}

// handleOverview handles the session_overview tool invocation.
func (s *Server) handleOverview(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ OverviewInput,
) (*mcp.CallToolResult, OverviewOutput, error) {
	doc := s.ports.Session.Document()
	if doc == nil {
		return nil, OverviewOutput{}, domain.ErrNoDocument
	}

	out := OverviewOutput{
		Name:        doc.Name,
		Description: doc.Description,
	}
	for _, row := range services.SystemOverview(doc) {
		out.SpinSystems = append(out.SpinSystems, SystemOutput{
			Index:     row.Index,
			Name:      row.Name,
			Abundance: row.Abundance,
			SiteCount: row.SiteCount,
			Isotopes:  row.Isotopes,
		})
	}
	out.Methods = methodOutputs(doc)

	return nil, out, nil
}

// handleImport handles the import_session tool invocation.
func (s *Server) handleImport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, ImportOutput, error) {
	payload := "data:application/json;base64," +
		base64.StdEncoding.EncodeToString([]byte(input.Document))

	outcome, err := s.ports.Session.Dispatch(ctx, domain.ImportFile{Contents: payload})
	if err != nil {
		return nil, ImportOutput{}, err
	}
	if outcome.Failed() {
		return nil, ImportOutput{}, fmt.Errorf("import rejected: %s", outcome.Message)
	}

	doc := s.ports.Session.Document()
	return nil, ImportOutput{
		Name:        doc.Name,
		SystemCount: len(doc.SpinSystems),
		MethodCount: len(doc.Methods),
	}, nil
}

// handleListMethods handles the list_methods tool invocation.
func (s *Server) handleListMethods(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListMethodsInput,
) (*mcp.CallToolResult, ListMethodsOutput, error) {
	doc := s.ports.Session.Document()
	if doc == nil {
		return nil, ListMethodsOutput{}, domain.ErrNoDocument
	}

	methods := methodOutputs(doc)
	return nil, ListMethodsOutput{Methods: methods, Count: len(methods)}, nil
}

func methodOutputs(doc *domain.Document) []MethodOutput {
	rows := services.MethodOverview(doc)
	out := make([]MethodOutput, 0, len(rows))
	for i, row := range rows {
		method := doc.Methods[i]
		out = append(out, MethodOutput{
			Index:          row.Index,
			Name:           row.Name,
			Channels:       row.Channels,
			FluxDensityT:   row.FluxDensity,
			RotorFreqKHz:   row.RotorFrequency,
			HasExperiment:  method.Experiment != nil,
			DimensionCount: len(method.SpectralDimensions),
		})
	}
	return out
}
