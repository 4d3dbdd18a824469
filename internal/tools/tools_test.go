package tools

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/branding"
	"github.com/standardbeagle/slidegen/internal/color"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/templates"
)

type stubAnalyzer struct {
	err error
}

func (s stubAnalyzer) Analyze(_ context.Context, url string) (*inspector.SiteAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inspector.SiteAnalysis{
		URL:        "https://" + url + "/",
		BrandName:  "Acme",
		Colors:     []color.Swatch{{Hex: "#0a0a0a", Usage: 9}, {Hex: "#ff6b35", Usage: 4}},
		Fonts:      []inspector.FontSample{{Family: "Inter", Weight: "400", Source: inspector.FontGoogle}},
		Screenshot: "data:image/png;base64,AAAA",
		Metadata:   inspector.Metadata{Title: "Acme", Domain: url},
	}, nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	return res.Content[0].(*mcp.TextContent).Text
}

func TestAnalyzeWebsite(t *testing.T) {
	h := makeAnalyzeHandler(stubAnalyzer{})

	res, out, err := h(context.Background(), nil, AnalyzeInput{URL: "acme.test"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "Acme", out.Analysis.BrandName)
	assert.Empty(t, out.Analysis.Screenshot, "screenshot is dropped unless asked for")

	_, out, _ = h(context.Background(), nil, AnalyzeInput{URL: "acme.test", Screenshot: true})
	assert.NotEmpty(t, out.Analysis.Screenshot)

	res, _, _ = h(context.Background(), nil, AnalyzeInput{})
	assert.Equal(t, "Missing required parameter: url", resultText(t, res))
}

func TestAnalyzeWebsiteFailure(t *testing.T) {
	h := makeAnalyzeHandler(stubAnalyzer{err: inspector.ErrNavigation})
	res, _, err := h(context.Background(), nil, AnalyzeInput{URL: "acme.test"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "navigation failed")
}

func TestExtractBranding(t *testing.T) {
	h := makeBrandingHandler(stubAnalyzer{}, branding.NewExtractor(branding.DefaultOverrides()))
	res, out, err := h(context.Background(), nil, AnalyzeInput{URL: "acme.test"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "Acme", out.Branding.BrandName)
	assert.Equal(t, "Inter", out.Branding.FontFamily)
}

func newRegistry(t *testing.T) *templates.Registry {
	t.Helper()
	reg := templates.NewRegistry(filepath.Join(t.TempDir(), "templates.json"))
	require.NoError(t, reg.Load())
	return reg
}

func TestListTemplates(t *testing.T) {
	reg := newRegistry(t)
	h := makeListTemplatesHandler(reg)

	_, out, err := h(context.Background(), nil, ListTemplatesInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, templates.DefaultTemplateID, out.Templates[0].ID)

	_, out, _ = h(context.Background(), nil, ListTemplatesInput{LinkedOnly: true})
	assert.Zero(t, out.Count)

	require.NoError(t, reg.SetGoogleSlidesID(templates.DefaultTemplateID, "deck_abcdefghij"))
	_, out, _ = h(context.Background(), nil, ListTemplatesInput{LinkedOnly: true})
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "deck_abcdefghij", out.Templates[0].GoogleSlidesID)
}

func TestGetTemplate(t *testing.T) {
	h := makeGetTemplateHandler(newRegistry(t))

	_, out, err := h(context.Background(), nil, GetTemplateInput{ID: templates.DefaultTemplateID})
	require.NoError(t, err)
	assert.Equal(t, "Techeroes Modern", out.Template.Name)

	res, _, _ := h(context.Background(), nil, GetTemplateInput{ID: "missing"})
	assert.Equal(t, "Template not found: missing", resultText(t, res))

	res, _, _ = h(context.Background(), nil, GetTemplateInput{})
	assert.Equal(t, "Missing required parameter: id", resultText(t, res))
}

type failingGenerator struct{}

func (failingGenerator) GenerateOutline(context.Context, aichannel.OutlineRequest) (*deck.Outline, error) {
	return nil, errors.Join(aichannel.ErrProviderError, errors.New("rate limited"))
}

func TestGenerateOutline(t *testing.T) {
	h := makeOutlineHandler(aichannel.MockGenerator{})

	res, out, err := h(context.Background(), nil, OutlineInput{Topic: "Go", SlideCount: 3})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Len(t, out.Outline.Slides, 3)

	res, _, _ = h(context.Background(), nil, OutlineInput{})
	assert.Equal(t, "Missing required parameter: topic", resultText(t, res))

	res, _, _ = h(context.Background(), nil, OutlineInput{Topic: "Go", SlideCount: 80})
	assert.Equal(t, "slide_count must be between 1 and 50", resultText(t, res))

	res, _, _ = makeOutlineHandler(failingGenerator{})(context.Background(), nil, OutlineInput{Topic: "Go"})
	assert.Contains(t, resultText(t, res), "rate limited")
}

func TestRegisterSkipsMissingDeps(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	assert.NotPanics(t, func() {
		Register(server, Deps{Registry: newRegistry(t), Generator: aichannel.MockGenerator{}})
	})
}
