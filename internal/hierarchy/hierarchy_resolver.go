package hierarchy

import (
	"context"

	"go.uber.org/zap"
)

// Link is one parent-pointer row from the employee directory.
type Link struct {
	EmployeeID   string  `gorm:"column:employee_id"`
	SupervisorID *string `gorm:"column:supervisor_id"`
	Archived     bool    `gorm:"column:archived"`
}

//go:generate mockgen -source=hierarchy_resolver.go -destination=mock/hierarchy_resolver_mock.go -package=mock
type Directory interface {
	ListSupervisorLinks(ctx context.Context, companyID string) ([]Link, error)
}

// Resolver computes the transitive supervised set for a supervisor from a
// single directory snapshot. It tolerates slightly stale snapshots; callers
// needing fresher data re-resolve.
type Resolver interface {
	ResolveSupervisedSet(ctx context.Context, companyID, supervisorID string) ([]string, error)
	ResolveSupervisedTeam(ctx context.Context, companyID, supervisorID string) ([]Link, error)
}

type resolver struct {
	directory Directory
	logger    *zap.Logger
}

func NewResolver(directory Directory, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("hierarchy.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hierarchy.resolver")
	}
	return &resolver{directory: directory, logger: l}
}

func (r *resolver) ResolveSupervisedSet(ctx context.Context, companyID, supervisorID string) ([]string, error) {
	team, err := r.ResolveSupervisedTeam(ctx, companyID, supervisorID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(team))
	for i, member := range team {
		ids[i] = member.EmployeeID
	}
	return ids, nil
}

func (r *resolver) ResolveSupervisedTeam(ctx context.Context, companyID, supervisorID string) ([]Link, error) {
	links, err := r.directory.ListSupervisorLinks(ctx, companyID)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]Link, len(links))
	for _, link := range links {
		if link.SupervisorID == nil || *link.SupervisorID == "" {
			continue
		}
		children[*link.SupervisorID] = append(children[*link.SupervisorID], link)
	}

	// BFS with a visited set. Visited guards termination: a cycle in the
	// directory truncates that branch instead of hanging or failing the call.
	visited := map[string]bool{supervisorID: true}
	team := make([]Link, 0)
	queue := []string{supervisorID}
	cycleSeen := false

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, member := range children[current] {
			if visited[member.EmployeeID] {
				cycleSeen = true
				continue
			}
			visited[member.EmployeeID] = true
			team = append(team, member)
			queue = append(queue, member.EmployeeID)
		}
	}

	if cycleSeen {
		r.logger.Warn("supervisor graph contains a cycle, branch truncated",
			zap.String("company_id", companyID),
			zap.String("supervisor_id", supervisorID),
		)
	}

	return team, nil
}

// ActiveOnly filters archived members out of a resolved team.
func ActiveOnly(team []Link) []Link {
	active := make([]Link, 0, len(team))
	for _, member := range team {
		if !member.Archived {
			active = append(active, member)
		}
	}
	return active
}
