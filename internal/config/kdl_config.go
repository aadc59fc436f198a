package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// applyKDL overlays values from a KDL document onto cfg.
//
//	compare {
//	    sensitivity 0.8
//	    max_sensitivity 1.0
//	    metric "damerau"
//	}
//	performance { jobs 4 }
//	preprocess {
//	    trim true
//	    formatter "clang-format"
//	    template "starter/main.c"
//	}
//	input {
//	    max_file_size "5MB"
//	    skip_binary true
//	}
//	output {
//	    log "report.csv"
//	    precision 4
//	    color false
//	}
//	exclude "**/*.md" "**/build/**"
func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "compare":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "sensitivity":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Compare.Sensitivity = v
					}
				case "max_sensitivity":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Compare.MaxSensitivity = v
					}
				case "metric":
					if s, ok := firstStringArg(cn); ok {
						m, err := types.ParseMetric(s)
						if err != nil {
							return err
						}
						cfg.Compare.Metric = m
					}
				case "damerau":
					if b, ok := firstBoolArg(cn); ok && b {
						cfg.Compare.Metric = types.MetricDamerauLevenshtein
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "jobs":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.Jobs = v
					}
				}
			}
		case "preprocess":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "trim":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Preprocess.Trim = b
					}
				}
				assignSimpleString(cn, "formatter", func(v string) { cfg.Preprocess.Formatter = v })
				assignSimpleString(cn, "template", func(v string) { cfg.Preprocess.Template = v })
			}
		case "input":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Input.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Input.MaxFileSize = sz
						}
					}
				case "skip_binary":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Input.SkipBinary = b
					}
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "precision":
					if v, ok := firstIntArg(cn); ok {
						cfg.Output.Precision = v
					}
				case "color":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.Color = b
					}
				case "verbose":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.Verbose = b
					}
				}
				assignSimpleString(cn, "log", func(v string) { cfg.Output.LogFile = v })
			}
		case "exclude":
			cfg.AddExclusions(collectStringArgs(n)...)
		}
	}

	return nil
}

// Helper functions leveraging kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for '%s' in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// Inline format: exclude "a" "b"
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "a"; "b" } where the node name is the string value
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
