// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v2"
)

// RelabelAction decides what a matching relabel rule does to a metric.
type RelabelAction string

const (
	RelabelReplace         RelabelAction = "replace"
	RelabelKeep            RelabelAction = "keep"
	RelabelDrop            RelabelAction = "drop"
	RelabelDropLabel       RelabelAction = "drop_label"
	RelabelSkipWhenEmpty   RelabelAction = "skip_when_empty"
	RelabelReportWhenEmpty RelabelAction = "report_when_empty"
)

// ParseRelabelAction maps an action name to its RelabelAction. Unknown
// names fall back to replace.
func ParseRelabelAction(s string) RelabelAction {
	switch RelabelAction(s) {
	case RelabelKeep, RelabelDrop, RelabelDropLabel, RelabelSkipWhenEmpty, RelabelReportWhenEmpty:
		return RelabelAction(s)
	}
	return RelabelReplace
}

const defaultSeparator = ";"

// RelabelConfig is one relabeling rule, following the Prometheus
// relabel_config conventions. The sentinel source label __name__ refers
// to the metric's full name.
type RelabelConfig struct {
	SourceLabels []string      `yaml:"source_labels,flow"`
	Separator    string        `yaml:"separator,omitempty"`
	Expr         string        `yaml:"regex,omitempty"`
	Action       RelabelAction `yaml:"action,omitempty"`
	TargetLabel  string        `yaml:"target_label,omitempty"`
	Replacement  string        `yaml:"replacement,omitempty"`
}

// ParseRelabelConfigs loads a YAML list of relabel rules and validates
// that every expression compiles.
func ParseRelabelConfigs(data []byte) ([]RelabelConfig, error) {
	var cfgs []RelabelConfig
	if err := yaml.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("metrics: parsing relabel configs: %w", err)
	}
	if _, err := compileRelabelConfigs(cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

// relabelRule is a RelabelConfig with its expression compiled.
type relabelRule struct {
	cfg RelabelConfig
	re  *regexp.Regexp
}

func compileRelabelConfigs(cfgs []RelabelConfig) ([]relabelRule, error) {
	rules := make([]relabelRule, 0, len(cfgs))
	for i, cfg := range cfgs {
		re, err := regexp.Compile(cfg.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", errRelabelExpr, i, err)
		}
		if cfg.Separator == "" {
			cfg.Separator = defaultSeparator
		}
		cfg.Action = ParseRelabelAction(string(cfg.Action))
		rules = append(rules, relabelRule{cfg: cfg, re: re})
	}
	return rules, nil
}

// apply runs one rule against a metric's current info, mutating it in
// place on match. It reports whether the metric was modified in a way
// that affects the snapshot.
func (rl *relabelRule) apply(info *MetricInfo) bool {
	var b strings.Builder
	for i, src := range rl.cfg.SourceLabels {
		val, ok := info.ID.labels[src]
		if src != model.MetricNameLabel && !ok {
			// A referenced label this metric does not carry:
			// the rule does not apply.
			return false
		}
		if i > 0 {
			b.WriteString(rl.cfg.Separator)
		}
		if src == model.MetricNameLabel {
			b.WriteString(info.ID.FullName())
		} else {
			b.WriteString(val)
		}
	}

	match := b.String()
	loc := rl.re.FindStringSubmatchIndex(match)
	if loc == nil {
		return false
	}

	switch rl.cfg.Action {
	case RelabelKeep, RelabelDrop:
		info.Enabled = rl.cfg.Action == RelabelKeep
		return true
	case RelabelSkipWhenEmpty, RelabelReportWhenEmpty:
		info.SkipWhenEmpty = rl.cfg.Action == RelabelSkipWhenEmpty
		return false
	case RelabelDropLabel:
		if _, ok := info.ID.labels[rl.cfg.TargetLabel]; ok {
			delete(info.ID.labels, rl.cfg.TargetLabel)
		}
		return true
	case RelabelReplace:
		if rl.cfg.TargetLabel != "" {
			expanded := rl.re.ExpandString(nil, rl.cfg.Replacement, match, loc)
			info.ID.labels[rl.cfg.TargetLabel] = string(expanded)
		}
		return true
	}
	return true
}

// RelabelingResult is the outcome of SetRelabelConfigs. A non-zero
// collision count means some metrics were disambiguated with an extra
// label to keep them all addressable.
type RelabelingResult struct {
	MetricsRelabeledDueToCollision int
}

// SetRelabelConfigs replaces the active rule list wholesale and reapplies
// it to every registered metric, always starting from the metric's
// original registration-time labels. An empty list reverts every metric
// to its original labels.
//
// A post-relabel label-set collision is never fatal: the colliding metric
// gets a synthetic high-entropy "err" label and the collision is counted
// in the result. A config error (bad expression) is reported before any
// metric is touched.
func (r *Registry) SetRelabelConfigs(cfgs []RelabelConfig) (RelabelingResult, error) {
	rules, err := compileRelabelConfigs(cfgs)
	if err != nil {
		return RelabelingResult{}, err
	}
	r.relabelRules = rules

	var res RelabelingResult
	for _, fam := range r.families {
		// First pass: recompute every metric from its original labels and
		// stage the ones whose storage key changed. The map is not
		// resized during this pass.
		var staged []*registeredMetric
		var stale []string
		for key, rm := range fam.instances {
			rm.info.ID.labels = rm.info.OriginalLabels.Clone()
			for i := range r.relabelRules {
				if r.relabelRules[i].apply(&rm.info) {
					r.markDirty()
				}
			}
			if key != rm.info.ID.labels.key() {
				staged = append(staged, rm)
				stale = append(stale, key)
				r.markDirty()
			}
		}

		// Second pass: relocate staged metrics under their new keys.
		for _, key := range stale {
			delete(fam.instances, key)
		}
		for _, rm := range staged {
			key := rm.info.ID.labels.key()
			if _, occupied := fam.instances[key]; occupied {
				// Two live metrics resolved to the same label set. On a
				// running system this must not be fatal, so disambiguate
				// with a unique label and report it to the caller.
				r.logErrorf("after relabeling, registering metrics twice for metrics: %s", fam.info.Name)
				rm.info.ID.labels[collisionLabel] = uuid.NewString()
				key = rm.info.ID.labels.key()
				res.MetricsRelabeledDueToCollision++
			}
			fam.instances[key] = rm
		}
	}
	return res, nil
}

// GetRelabelConfigs returns the currently active rule list.
func (r *Registry) GetRelabelConfigs() []RelabelConfig {
	cfgs := make([]RelabelConfig, 0, len(r.relabelRules))
	for _, rl := range r.relabelRules {
		cfgs = append(cfgs, rl.cfg)
	}
	return cfgs
}
