package alerts

import (
	"fmt"

	"github.com/gertd/go-pluralize"

	"github.com/agentstation/ipamctl"
	"github.com/agentstation/ipamctl/pkg/changeset"
)

var plural = pluralize.NewClient()

// Summary describes a run of results. In check mode changes are reported
// as pending; a non-nil err turns the summary into an error alert.
func Summary(results []ipamctl.TaskResult, check bool, err error) *Alert {
	changed := 0
	var details []string
	for _, r := range results {
		if r.Result == nil || !r.Changed {
			continue
		}
		changed++
		label := r.Name
		if label == "" {
			label = r.Module
		}
		details = append(details, actionVerb(r.Action, check)+" "+label)
	}

	tasks := plural.Pluralize("task", len(results), true)
	switch {
	case err != nil:
		return NewError(fmt.Sprintf("%s completed, %d changed before failure", tasks, changed)).
			WithDetails(details...).
			WithError(err)
	case check && changed > 0:
		return NewWarning(fmt.Sprintf("check mode: %d of %s would change", changed, tasks)).WithDetails(details...)
	case check:
		return NewInfo(fmt.Sprintf("check mode: %s, nothing would change", tasks))
	case changed > 0:
		return NewSuccess(fmt.Sprintf("%s, %d changed", tasks, changed)).WithDetails(details...)
	default:
		return NewSuccess(fmt.Sprintf("%s, nothing to change", tasks))
	}
}

var verbs = map[changeset.Action][2]string{
	changeset.ActionCreate: {"created", "would create"},
	changeset.ActionUpdate: {"updated", "would update"},
	changeset.ActionDelete: {"deleted", "would delete"},
}

func actionVerb(action changeset.Action, check bool) string {
	v, ok := verbs[action]
	if !ok {
		return string(action)
	}
	if check {
		return v[1]
	}
	return v[0]
}
