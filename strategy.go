package rendezvous

import (
	"context"
	"fmt"
	"log/slog"

	orb "github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Collaborators are the external capabilities a strategy plans against
type Collaborators struct {
	Signal   SignalModel
	Planner  PathPlanner
	Topology Topology
	// Merger may be nil, map knowledge is then left to the caller
	Merger MapMerger
}

// Option configures a Strategy
type Option func(*Strategy)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Strategy) { s.logger = l }
}

// WithMeter records planner metrics on m
func WithMeter(m metric.Meter) Option {
	return func(s *Strategy) { s.meter = m }
}

// WithTracer traces every full recomputation on t
func WithTracer(t trace.Tracer) Option {
	return func(s *Strategy) { s.tracer = t }
}

// Strategy is the rendezvous behaviour bound to one agent. The exploration
// state machine calls its hooks; all of them mutate only this agent's state.
type Strategy struct {
	agent  Agent
	cfg    Config
	policy Policy
	state  *State
	env    *environment
	merger MapMerger

	logger *slog.Logger
	meter  metric.Meter
	tracer trace.Tracer
}

// NewStrategy builds the strategy for agent, selecting the policy from cfg
func NewStrategy(agent Agent, cfg Config, collab Collaborators, opts ...Option) (*Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if collab.Signal == nil || collab.Planner == nil {
		return nil, fmt.Errorf("%w: signal model and path planner are required", ErrInvalidConfig)
	}
	policy, err := NewPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	s := &Strategy{
		agent:  agent,
		cfg:    cfg,
		policy: policy,
		state:  NewState(agent.Position),
		merger: collab.Merger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "rendezvous", "agent", string(agent.ID), "role", agent.Role.String())
	if s.tracer == nil {
		s.tracer = tracenoop.NewTracerProvider().Tracer(meterName)
	}

	m, err := newMetrics(s.meter, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	timing := NewTiming(collab.Planner, cfg)
	timing.metrics = m
	timing.logger = s.logger
	resolver := NewResolver(collab.Planner, cfg.LOSCandidates, cfg.NLOSCandidates)
	resolver.metrics = m

	s.env = &environment{
		cfg:      cfg,
		signal:   collab.Signal,
		planner:  collab.Planner,
		topology: collab.Topology,
		sampler:  NewSampler(),
		resolver: resolver,
		timing:   timing,
		metrics:  m,
		logger:   s.logger,
	}
	return s, nil
}

// Agent returns the agent this strategy is bound to
func (s *Strategy) Agent() Agent { return s.agent }

// State returns the live rendezvous state
func (s *Strategy) State() *State { return s.state }

// Policy returns the selected policy
func (s *Strategy) Policy() Policy { return s.policy }

// Timing exposes the timing planner
func (s *Strategy) Timing() *Timing { return s.env.timing }

// Resolver exposes the base reachability resolver
func (s *Strategy) Resolver() *Resolver { return s.env.resolver }

// Tick advances the per-tick counters. Call once per simulated tick.
func (s *Strategy) Tick() {
	if s.state.Cooldown > 0 {
		s.state.Cooldown--
	}
	s.state.TicksSinceRoleSwitch++
}

// Move records the agent's new position
func (s *Strategy) Move(p orb.Point) {
	s.agent.Position = p
}

// SwitchRole swaps the agent's role unless it switched too recently
func (s *Strategy) SwitchRole(role Role) bool {
	if role == s.agent.Role {
		return false
	}
	if s.state.TicksSinceRoleSwitch < s.cfg.MinTicksBetweenRoleSwitch {
		return false
	}
	s.logger.Info("role switch", "from", s.agent.Role.String(), "to", role.String())
	s.agent.Role = role
	s.state.TicksSinceRoleSwitch = 0
	s.logger = s.logger.With("role", role.String())
	s.env.logger = s.logger
	s.env.timing.logger = s.logger
	return true
}

// OnEnterParentRange recomputes the rendezvous with the parent. It does nothing
// and returns false while the cooldown is running.
func (s *Strategy) OnEnterParentRange(sit Situation) (Selection, bool) {
	if s.state.Cooldown > 0 {
		s.logger.Debug("rendezvous recomputation throttled", "cooldown", s.state.Cooldown)
		return Selection{}, false
	}
	sit = s.situate(sit)
	_, span := s.tracer.Start(context.Background(), "rendezvous.select", trace.WithAttributes(
		attribute.String("agent", string(s.agent.ID)),
		attribute.String("policy", string(s.policy.Kind())),
		attribute.Int("now", sit.Now),
	))
	sel := s.policy.selectRendezvous(s.env, sit)
	span.SetAttributes(attribute.Bool("fallback", sel.Fallback), attribute.Int("meeting", sel.Primary.MeetingTime))
	if sel.Reason != nil {
		span.SetStatus(codes.Error, sel.Reason.Error())
	}
	span.End()
	s.state.Cooldown = s.cfg.RecomputeInterval
	s.env.metrics.recomputation(s.policy.Kind())

	s.state.ParentRV = sel.Primary.Copy()
	s.state.ParentBackupRV = sel.Backup.Copy()
	s.state.ParentExploreTarget = nil
	if sel.ExploreFrontier != nil {
		f := *sel.ExploreFrontier
		s.state.ParentExploreTarget = &f
	}
	s.logger.Info("rendezvous agreed",
		"policy", string(s.policy.Kind()),
		"child", sel.Primary.ChildLocation, "parent", sel.Primary.ParentLocation,
		"meeting", sel.Primary.MeetingTime, "backup_meeting", sel.Backup.MeetingTime,
		"fallback", sel.Fallback)
	return sel, true
}

// OnLeaveFrontier is called when the explorer turns back. It returns where to go.
func (s *Strategy) OnLeaveFrontier(sit Situation) orb.Point {
	return s.ReplanToParent(sit)
}

// DueToReturn reports whether the explorer must head back now to make the
// meeting. It is false until a rendezvous has been agreed. Off cooldown it may
// move its own half of the agreed pair to a cheaper point that is still
// connected to the parent's half; that re-evaluation restarts the cooldown.
func (s *Strategy) DueToReturn(sit Situation) bool {
	rv := s.state.ParentRV
	if !rv.Reachable() || rv.MeetingTime == 0 {
		return false
	}
	sit = s.situate(sit)
	if s.state.Cooldown == 0 {
		s.refineOwnHalf(sit, rv)
		s.state.Cooldown = s.cfg.RecomputeInterval
	}
	travel, _ := s.env.timing.Travel(s.agent.Position, rv.ChildLocation)
	arrival := float64(sit.Now) + travel/s.cfg.Speed
	return arrival >= float64(rv.MeetingTime)
}

func (s *Strategy) refineOwnHalf(sit Situation, rv *Rendezvous) {
	current, _ := s.env.timing.Travel(s.agent.Position, rv.ChildLocation)
	for _, c := range s.env.rankSkeleton(sit) {
		if c.Location == rv.ChildLocation {
			break
		}
		if !s.env.signal.IsConnected(s.cfg.CommRange, sit.Grid, c.Location, rv.ParentLocation) {
			continue
		}
		d, ok := s.env.timing.Travel(s.agent.Position, c.Location)
		if !ok || d >= current {
			continue
		}
		s.logger.Debug("moved own rendezvous half", "from", rv.ChildLocation, "to", c.Location)
		rv.ChildLocation = c.Location
		return
	}
}

// ReplanToParent returns the location to head for to meet the parent: the
// primary while its window is open, then the backup, then the current position
func (s *Strategy) ReplanToParent(sit Situation) orb.Point {
	switch {
	case s.state.ParentRV.Reachable() && sit.Now <= s.state.ParentRV.Deadline():
		return s.state.ParentRV.ChildLocation
	case s.state.ParentBackupRV.Reachable() && sit.Now <= s.state.ParentBackupRV.Deadline():
		return s.state.ParentBackupRV.ChildLocation
	}
	return s.OnTimeoutNoBackup(sit)
}

// ReplanToChild is ReplanToParent for the parent side of the child's plan
func (s *Strategy) ReplanToChild(sit Situation) orb.Point {
	switch {
	case s.state.ChildRV.Reachable() && sit.Now <= s.state.ChildRV.Deadline():
		return s.state.ChildRV.ParentLocation
	case s.state.ChildBackupRV.Reachable() && sit.Now <= s.state.ChildBackupRV.Deadline():
		return s.state.ChildBackupRV.ParentLocation
	}
	return s.OnTimeoutNoBackup(sit)
}

// WaitForParent returns where to stand while waiting at the rendezvous
func (s *Strategy) WaitForParent(sit Situation) orb.Point {
	return s.wait(sit, s.state.ParentRV.ParentLocation)
}

// WaitForChild returns where to stand while waiting for the child
func (s *Strategy) WaitForChild(sit Situation) orb.Point {
	return s.wait(sit, s.state.ChildRV.ChildLocation)
}

func (s *Strategy) wait(sit Situation, toward orb.Point) orb.Point {
	if !s.cfg.HillClimb || sit.Grid == nil {
		return s.agent.Position
	}
	return s.hillClimb(sit.Grid, s.agent.Position, toward)
}

// OnTimeoutNoBackup holds position
func (s *Strategy) OnTimeoutNoBackup(Situation) orb.Point {
	return s.agent.Position
}

// ActionKind is what the agent does right after a contact
type ActionKind int

// The post-contact actions
const (
	ActionExplore ActionKind = iota
	ActionGoToParent
	ActionHold
)

// Action is a post-contact instruction for the state machine
type Action struct {
	Kind   ActionKind
	Target orb.Point
}

// AfterContact decides what the agent does once a contact has been synchronized
func (s *Strategy) AfterContact(sit Situation) Action {
	sit = s.situate(sit)
	switch s.agent.Role {
	case Explorer:
		rv := s.state.ParentRV
		s.env.timing.Schedule(rv, MeetingInput{
			Now:            sit.Now,
			Relay:          sit.Parent.Location,
			BaseAnchor:     anchorOf(rv, sit.Base),
			ParentLocation: rv.ParentLocation,
			Explorer:       s.agent.Position,
			NextFrontier:   sit.nextFrontier(),
			ChildLocation:  rv.ChildLocation,
		})
		if s.state.ParentBackupRV.Reachable() {
			s.env.timing.ComputeBackup(rv, s.state.ParentBackupRV)
		}
		return Action{Kind: ActionExplore, Target: sit.nextFrontier()}

	case Relay:
		if t, ok := s.opportunisticTarget(sit); ok {
			return Action{Kind: ActionExplore, Target: t}
		}
		return Action{Kind: ActionGoToParent, Target: s.ReplanToParent(sit)}
	}
	return Action{Kind: ActionHold, Target: s.agent.Position}
}

// opportunisticTarget is the frontier the relay may explore, if its child's
// meeting leaves enough slack after exploring it
func (s *Strategy) opportunisticTarget(sit Situation) (orb.Point, bool) {
	if !s.cfg.OpportunisticExploration || s.state.ExploreTarget == nil {
		return orb.Point{}, false
	}
	target := *s.state.ExploreTarget
	if s.state.IsUnreachable(target) {
		return orb.Point{}, false
	}
	toFrontier, ok := s.env.timing.Travel(s.agent.Position, target)
	if !ok {
		s.state.MarkUnreachable(target)
		return orb.Point{}, false
	}
	back, ok := s.env.timing.Travel(target, s.state.ChildRV.ParentLocation)
	if !ok {
		return orb.Point{}, false
	}
	slack := float64(s.state.ChildRV.MeetingTime-sit.Now) - (toFrontier+back)/s.cfg.Speed
	if slack < float64(s.cfg.MinSlack) {
		return orb.Point{}, false
	}
	return target, true
}

// TimeToBase estimates the ticks this agent needs to reach the base
func (s *Strategy) TimeToBase(sit Situation) float64 {
	if s.agent.Role == Base {
		return 0
	}
	d, _ := s.env.timing.Travel(s.agent.Position, sit.Base)
	return d / s.cfg.Speed
}

// situate fills the parts of the situation the strategy knows better than the caller
func (s *Strategy) situate(sit Situation) Situation {
	sit.Self = s.agent
	if sit.HierarchyDepth == 0 {
		sit.HierarchyDepth = 2
	}
	if tm, ok := s.state.Teammates[s.agent.Parent]; ok && sit.Parent.ID == "" {
		sit.Parent = tm
	}
	if tm, ok := s.state.Teammates[s.agent.Child]; ok && sit.Child.ID == "" {
		sit.Child = tm
	}
	var open []Frontier
	for _, f := range sit.OpenFrontiers {
		if !s.state.IsUnreachable(f.Centre) {
			open = append(open, f)
		}
	}
	sit.OpenFrontiers = open
	return sit
}

func anchorOf(rv *Rendezvous, base orb.Point) orb.Point {
	if rv.ParentsRV != nil {
		return rv.ParentsRV.ChildLocation
	}
	return base
}
