package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeRequest mirrors the LeadLens API request model.
type scrapeRequest struct {
	URL           string `json:"url"`
	BypassCache   bool   `json:"bypass_cache,omitempty"`
	WaitSelector  string `json:"wait_selector,omitempty"`
	ContentFormat string `json:"content_format,omitempty"`
}

// scrapeResponse mirrors the LeadLens API response model.
type scrapeResponse struct {
	Success bool `json:"success"`
	Record  *struct {
		URL         string            `json:"url"`
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Favicon     string            `json:"favicon"`
		Image       string            `json:"image"`
		Logo        string            `json:"logo"`
		Keywords    []string          `json:"keywords"`
		Emails      []string          `json:"emails"`
		Phones      []string          `json:"phones"`
		Socials     map[string]string `json:"socials"`
		TechStack   []string          `json:"tech_stack"`
		Summary     string            `json:"summary"`
		Content     string            `json:"content"`
		Team        []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"team"`
		Meta struct {
			FetchTimeMs     int64 `json:"fetch_time_ms"`
			Cached          bool  `json:"cached"`
			ConfidenceScore int   `json:"confidence_score"`
			IsPartial       bool  `json:"is_partial"`
			RobotWarning    bool  `json:"robot_warning"`
		} `json:"meta"`
	} `json:"record"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("LEADLENS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"leadlens",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractLeadTool := mcp.NewTool("extract_lead",
		mcp.WithDescription("Extract business intelligence from a website: title, description, contact emails and phones, social profiles, tech stack, team members and a content summary. Renders JavaScript-heavy pages with a headless browser when needed."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the website to analyze"),
		),
		mcp.WithBoolean("bypass_cache",
			mcp.Description("Skip the result cache and fetch the page fresh (default: false)"),
		),
		mcp.WithString("content_format",
			mcp.Description("Format for the extracted page content: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
	)
	s.AddTool(extractLeadTool, handleExtractLead(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleExtractLead(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := scrapeRequest{
			URL:           url,
			BypassCache:   request.GetBool("bypass_cache", false),
			ContentFormat: request.GetString("content_format", ""),
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/scrape", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var scrapeResp scrapeResponse
		if err := json.Unmarshal(respBody, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !scrapeResp.Success || scrapeResp.Record == nil {
			errMsg := "extraction failed"
			if scrapeResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", scrapeResp.Error.Code, scrapeResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatRecord(&scrapeResp)), nil
	}
}

// formatRecord renders the extraction record as a readable report.
func formatRecord(resp *scrapeResponse) string {
	r := resp.Record
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\n", r.URL)
	if r.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(r.Keywords, ", "))
	}
	if len(r.Emails) > 0 {
		fmt.Fprintf(&b, "Emails: %s\n", strings.Join(r.Emails, ", "))
	}
	if len(r.Phones) > 0 {
		fmt.Fprintf(&b, "Phones: %s\n", strings.Join(r.Phones, ", "))
	}
	if len(r.Socials) > 0 {
		platforms := make([]string, 0, len(r.Socials))
		for p := range r.Socials {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)
		b.WriteString("Socials:\n")
		for _, p := range platforms {
			fmt.Fprintf(&b, "  %s: %s\n", p, r.Socials[p])
		}
	}
	if len(r.TechStack) > 0 {
		fmt.Fprintf(&b, "Tech stack: %s\n", strings.Join(r.TechStack, ", "))
	}
	if len(r.Team) > 0 {
		b.WriteString("Team:\n")
		for _, m := range r.Team {
			if m.Role != "" {
				fmt.Fprintf(&b, "  %s (%s)\n", m.Name, m.Role)
			} else {
				fmt.Fprintf(&b, "  %s\n", m.Name)
			}
		}
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "\nSummary:\n%s\n", r.Summary)
	}

	fmt.Fprintf(&b, "\n---\nConfidence: %d/100", r.Meta.ConfidenceScore)
	if r.Meta.Cached {
		b.WriteString(" (cached)")
	}
	if r.Meta.IsPartial {
		b.WriteString(" (partial)")
	}
	if r.Meta.RobotWarning {
		b.WriteString(" (robots.txt disallows this path)")
	}
	b.WriteString("\n")

	return b.String()
}
