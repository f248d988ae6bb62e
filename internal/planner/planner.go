package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/nhle/jira-toolkit/internal/jira"
	"github.com/nhle/jira-toolkit/internal/model"
)

// Issue is the planner's view of one epic child.
type Issue struct {
	Key     string
	Summary string
	Status  string
	Done    bool
}

// Plan is the dependency-ordered execution plan for an epic: issues
// grouped into rounds where an issue only enters a round once all of
// its blockers sit in earlier rounds.
type Plan struct {
	EpicKey string
	Rounds  [][]string
	Issues  map[string]Issue

	// Blockers maps an issue to its direct blockers, sorted.
	Blockers map[string][]string

	// Transitive maps an issue to its indirect blockers (reachable
	// blockers minus the direct ones), sorted.
	Transitive map[string][]string
}

// Searcher is the slice of the Jira client the planner needs.
type Searcher interface {
	SearchIssues(ctx context.Context, jql string, fields []string) ([]jira.Issue, error)
}

// BuildPlan fetches the children of an epic and orders them by their
// "Blocks" dependency links.
func BuildPlan(ctx context.Context, client Searcher, epicKey string) (*Plan, error) {
	jql := fmt.Sprintf("%q = %s", "Epic Link", epicKey)
	issues, err := client.SearchIssues(ctx, jql, []string{
		"summary", "status", "issuelinks",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching children of %s: %w", epicKey, err)
	}

	return buildPlan(epicKey, issues)
}

func buildPlan(epicKey string, issues []jira.Issue) (*Plan, error) {
	plan := &Plan{
		EpicKey:    epicKey,
		Issues:     make(map[string]Issue, len(issues)),
		Blockers:   make(map[string][]string),
		Transitive: make(map[string][]string),
	}

	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, issue := range issues {
		plan.Issues[issue.Key] = Issue{
			Key:     issue.Key,
			Summary: issue.Fields.Summary,
			Status:  issue.Fields.Status.Name,
			Done:    model.StatusIsDone(issue.Fields.Status.Name),
		}
		if err := g.AddVertex(issue.Key); err != nil &&
			!errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("adding %s to graph: %w", issue.Key, err)
		}
	}

	// An edge runs from the blocker to the blocked issue.
	for _, issue := range issues {
		for _, link := range issue.Fields.IssueLinks {
			if !strings.EqualFold(link.Type.Name, "Blocks") {
				continue
			}
			if link.OutwardIssue == nil || link.OutwardIssue.Key == issue.Key {
				continue
			}
			if _, ok := plan.Issues[link.OutwardIssue.Key]; !ok {
				continue
			}

			err := g.AddEdge(issue.Key, link.OutwardIssue.Key)
			if errors.Is(err, graph.ErrEdgeAlreadyExists) {
				continue
			}
			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				return nil, fmt.Errorf(
					"dependency cycle between %s and %s",
					issue.Key, link.OutwardIssue.Key,
				)
			}
			if err != nil {
				return nil, fmt.Errorf(
					"adding edge %s blocks %s: %w",
					issue.Key, link.OutwardIssue.Key, err,
				)
			}
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, fmt.Errorf("ordering issues of %s: %w", epicKey, err)
	}

	predecessors, err := g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("reading dependencies: %w", err)
	}

	for key, preds := range predecessors {
		blockers := make([]string, 0, len(preds))
		for blocker := range preds {
			blockers = append(blockers, blocker)
		}
		sort.Strings(blockers)
		plan.Blockers[key] = blockers
	}

	for _, key := range order {
		plan.Transitive[key] = transitiveBlockers(plan.Blockers, key)
	}

	plan.Rounds = groupRounds(order, plan.Blockers)
	return plan, nil
}

// groupRounds walks the topological order and starts a new round the
// moment an issue depends on something not yet placed in an earlier
// round.
func groupRounds(order []string, blockers map[string][]string) [][]string {
	var rounds [][]string
	var current []string

	placed := make(map[string]bool)

	for _, key := range order {
		ready := true
		for _, blocker := range blockers[key] {
			if !placed[blocker] {
				ready = false
				break
			}
		}

		if len(current) > 0 && !ready {
			rounds = append(rounds, current)
			for _, done := range current {
				placed[done] = true
			}
			current = nil
		}
		current = append(current, key)
	}
	if len(current) > 0 {
		rounds = append(rounds, current)
	}

	return rounds
}

// transitiveBlockers returns the blockers reachable through other
// blockers, excluding the direct ones.
func transitiveBlockers(blockers map[string][]string, key string) []string {
	direct := make(map[string]bool)
	for _, blocker := range blockers[key] {
		direct[blocker] = true
	}

	seen := make(map[string]bool)
	var visit func(string)
	visit = func(k string) {
		for _, blocker := range blockers[k] {
			if !seen[blocker] {
				seen[blocker] = true
				visit(blocker)
			}
		}
	}
	visit(key)

	var indirect []string
	for blocker := range seen {
		if !direct[blocker] {
			indirect = append(indirect, blocker)
		}
	}
	sort.Strings(indirect)
	return indirect
}
