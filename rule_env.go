package base

import (
	"sort"
	"strings"
	"time"
)

// Variables every rule is given. They win over option keys of the same
// name; the option stays reachable as options.<name>.
const (
	RuleOptions = "options"
	RuleArgs    = "args"
	RuleResult  = "result"
	RuleEvent   = "event"
	RuleClass   = "class"
	RuleLineage = "lineage"
	RuleNow     = "now"
)

var ruleReserved = map[string]bool{
	RuleOptions: true,
	RuleArgs:    true,
	RuleResult:  true,
	RuleEvent:   true,
	RuleClass:   true,
	RuleLineage: true,
	RuleNow:     true,
}

// ruleEnv is the flat variable set a rule runs against, with its names
// sorted so compiled programs can be keyed by shape.
type ruleEnv struct {
	vars  map[string]any
	names []string
}

func newRuleEnv(ctx RuleContext) ruleEnv {
	options := ctx.Options
	if options == nil {
		options = Tree{}
	}
	args := ctx.Args
	if args == nil {
		args = []any{}
	}
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	lineage := ctx.Class.Lineage()
	if lineage == nil {
		lineage = []string{}
	}

	vars := make(map[string]any, len(options)+len(ruleReserved)+len(ctx.Vars))
	for key, value := range options {
		vars[key] = value
	}
	vars[RuleOptions] = options
	vars[RuleArgs] = args
	vars[RuleResult] = ctx.Result
	vars[RuleEvent] = eventBinding(ctx.Event)
	vars[RuleClass] = ctx.Class.Name()
	vars[RuleLineage] = lineage
	vars[RuleNow] = now
	for key, value := range ctx.Vars {
		vars[key] = value
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return ruleEnv{vars: vars, names: names}
}

// eventBinding describes the dispatch a rule runs in. Phase is "before" or
// "after" for method hooks and empty otherwise.
func eventBinding(e *Event) map[string]any {
	binding := map[string]any{"type": "", "phase": "", "method": ""}
	if e == nil {
		return binding
	}
	binding["type"] = e.Type
	binding["method"] = e.Method
	if kind, _ := parseKey(e.Type); kind != hookNone {
		phase, _, _ := strings.Cut(e.Type, ":")
		binding["phase"] = phase
	}
	return binding
}

// programKey identifies a compiled program. Engines that declare variables
// at compile time produce different programs for different option key sets.
func (env ruleEnv) programKey(engine, expression string) string {
	var sb strings.Builder
	sb.WriteString(engine)
	sb.WriteByte(0)
	sb.WriteString(strings.Join(env.names, ","))
	sb.WriteByte(0)
	sb.WriteString(expression)
	return sb.String()
}

func classLabel(c *Class) string {
	if name := c.Name(); name != "" {
		return name
	}
	return "unknown"
}
