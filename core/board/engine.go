package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/fleetboard/core/events"
	"github.com/kilianp07/fleetboard/core/logger"
	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/core/roster"
	"github.com/kilianp07/fleetboard/internal/eventbus"
)

// Engine is the public face of the schedule board. Mutations run one at a
// time; the conflict confirmation is the only point where an operation waits
// on the outside world, and no other mutation can start while it does.
type Engine struct {
	*shared
	confirmer Confirmer
}

type shared struct {
	mu       sync.Mutex
	cfg      Config
	rules    *Rules
	store    *Store
	resolver Resolver
	history  *History
	persist  StateStore
	audit    AuditSink
	notifier Notifier
	bus      *eventbus.TypedBus[events.Event]
	log      logger.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithStateStore sets where the board is flushed after each mutation.
func WithStateStore(s StateStore) Option { return func(e *Engine) { e.persist = s } }

// WithConfirmer sets the default conflict decision.
func WithConfirmer(c Confirmer) Option { return func(e *Engine) { e.confirmer = c } }

// WithNotifier sets the operator notification channel.
func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

// WithAuditSink sets the receiver of history entries.
func WithAuditSink(a AuditSink) Option { return func(e *Engine) { e.audit = a } }

// WithBus sets the event bus. A private bus is created otherwise.
func WithBus(b *eventbus.TypedBus[events.Event]) Option { return func(e *Engine) { e.bus = b } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(e *Engine) { e.log = l } }

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New builds an engine over the roster dir.
func New(cfg Config, dir roster.Directory, opts ...Option) (*Engine, error) {
	if dir == nil {
		return nil, fmt.Errorf("board: nil roster directory")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	store := NewStore()
	e := &Engine{
		shared: &shared{
			cfg:      cfg,
			rules:    NewRules(dir),
			store:    store,
			resolver: NewResolver(store),
			history:  NewHistory(cfg.HistoryLimit),
			notifier: NopNotifier{},
			audit:    NopSink{},
			log:      nopLogger{},
			now:      time.Now,
		},
		confirmer: StaticConfirmer(false),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = eventbus.NewTyped[events.Event]()
	}
	e.history.now = e.now
	return e, nil
}

// Confirming returns a view of the engine sharing all state but deciding
// conflicts with c. It is used to attach a per-request decision.
func (e *Engine) Confirming(c Confirmer) *Engine {
	return &Engine{shared: e.shared, confirmer: c}
}

// Subscribe returns a channel receiving board events.
func (e *Engine) Subscribe() <-chan events.Event { return e.bus.Subscribe() }

// Unsubscribe stops delivery to ch.
func (e *Engine) Unsubscribe(ch <-chan events.Event) { e.bus.Unsubscribe(ch) }

// Rules exposes the validation rules, for callers that pre-check input.
func (e *Engine) Rules() *Rules { return e.rules }

// Start loads the persisted board and announces readiness. A load failure
// leaves the board empty and in-memory only.
func (e *Engine) Start(ctx context.Context) events.AssignmentsReady {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.persist != nil {
		st, err := e.persist.Load(ctx)
		switch {
		case err != nil:
			persistFailures.WithLabelValues("load").Inc()
			e.log.Errorf("load board state: %v", err)
			e.notifier.Notify("Saved assignments could not be loaded; starting with an empty board", SeverityWarning)
		case st != nil:
			e.store.Restore(*st)
			e.history.Restore(st.History)
			e.log.Infof("restored %d routes and %d field trips", len(st.Routes), len(st.FieldTrips))
		}
	}
	e.checkConsistency()
	e.updateGauges()
	ready := events.AssignmentsReady{
		Routes:     len(e.store.All(model.OwnerRoute)),
		FieldTrips: len(e.store.All(model.OwnerFieldTrip)),
		Timestamp:  e.now().UTC(),
	}
	e.bus.Publish(ready)
	return ready
}

// AssignStaffToRoute binds a staff member to a route as driver or escort.
func (e *Engine) AssignStaffToRoute(ctx context.Context, routeID, staffID string, role model.Role) Result {
	return e.assign(ctx, model.Route(routeID), model.Staff(staffID), role)
}

// AssignAssetToRoute binds a vehicle or trailer to a route. An empty role
// means the vehicle slot.
func (e *Engine) AssignAssetToRoute(ctx context.Context, routeID, assetID string, role model.Role) Result {
	if role == "" {
		role = model.RoleAsset
	}
	return e.assign(ctx, model.Route(routeID), model.Asset(assetID), role)
}

// AssignToFieldTrip binds any resource to a field trip.
func (e *Engine) AssignToFieldTrip(ctx context.Context, tripID string, res model.ResourceRef, role model.Role) Result {
	if role == "" && res.Type == model.ResourceAsset {
		role = model.RoleAsset
	}
	return e.assign(ctx, model.FieldTrip(tripID), res, role)
}

// ClearRouteAssignment releases resources from a route. An empty role clears
// every slot; an empty resourceID clears all holders of role.
func (e *Engine) ClearRouteAssignment(ctx context.Context, routeID string, role model.Role, resourceID string) Result {
	return e.clear(ctx, model.Route(routeID), role, resourceID)
}

// ClearFieldTripAssignment releases resources from a field trip.
func (e *Engine) ClearFieldTripAssignment(ctx context.Context, tripID string, role model.Role, resourceID string) Result {
	return e.clear(ctx, model.FieldTrip(tripID), role, resourceID)
}

// ReleaseResource unbinds a resource from wherever it is bound.
func (e *Engine) ReleaseResource(ctx context.Context, res model.ResourceRef) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, bound := e.store.Lookup(res)
	if !bound {
		return unchanged(fmt.Sprintf("%s is not assigned", res))
	}
	return e.clearLocked(ctx, b.Owner, b.Role, res.ID)
}

func (e *Engine) assign(ctx context.Context, owner model.OwnerRef, res model.ResourceRef, role model.Role) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if v := e.rules.Validate(res, owner, role); !v.Valid {
		return e.reject(v.Code, v.Reason)
	}
	conflicts, bound := e.resolver.FindConflicts(res, owner, role)
	if bound {
		return unchanged(fmt.Sprintf("%s is already %s on %s", res, article(role), owner))
	}
	if role == model.RoleEscort {
		if rec, _ := e.store.Peek(owner); len(rec.Escorts) >= e.cfg.MaxEscorts {
			return e.reject(CodeEscortLimit, fmt.Sprintf("%s already has %d escorts", owner, e.cfg.MaxEscorts))
		}
	}

	var released []model.ResourceRef
	if len(conflicts) > 0 {
		yes, err := e.resolver.Decide(ctx, e.decider(), e.resolver.Prompt(conflicts, owner, role))
		switch {
		case err != nil:
			conflictsTotal.WithLabelValues("error").Inc()
			e.log.Warnf("confirmation for %s on %s failed: %v", res, owner, err)
			return Result{Code: CodeDeclined, Reason: "confirmation unavailable: " + err.Error(), Conflicts: conflicts}
		case !yes:
			conflictsTotal.WithLabelValues("declined").Inc()
			return Result{Code: CodeDeclined, Reason: conflicts[0].String(), Conflicts: conflicts}
		}
		conflictsTotal.WithLabelValues("confirmed").Inc()
		released = e.resolver.Release(conflicts)
	}

	displaced, err := e.store.Assign(owner, role, res.ID)
	if err != nil {
		e.log.Errorw("assign after conflict release failed", map[string]any{
			"resource": res.String(), "owner": owner.String(), "role": string(role), "error": err.Error(),
		})
		e.checkConsistency()
		e.flush(ctx)
		return failed(CodeInternal, err.Error())
	}
	assignmentsTotal.WithLabelValues(string(owner.Kind), string(role)).Inc()
	e.checkConsistency()

	var logged []model.HistoryEntry
	for _, c := range conflicts {
		clearsTotal.WithLabelValues(string(c.Current.Owner.Kind)).Inc()
		logged = append(logged, e.history.Append(model.HistoryEntry{
			Kind: model.HistoryReassigned, Owner: c.Current.Owner, Resources: []string{res.ID},
			ResourceType: res.Type, Role: c.Current.Role, Note: "moved to " + owner.String(),
		}))
	}
	if displaced != "" {
		clearsTotal.WithLabelValues(string(owner.Kind)).Inc()
		logged = append(logged, e.history.Append(model.HistoryEntry{
			Kind: model.HistoryDisplaced, Owner: owner, Resources: []string{displaced},
			ResourceType: res.Type, Role: role, Note: "replaced by " + res.ID,
		}))
	}
	logged = append(logged, e.history.Append(model.HistoryEntry{
		Kind: model.HistoryAssigned, Owner: owner, Resources: []string{res.ID},
		ResourceType: res.Type, Role: role,
	}))
	e.record(logged)
	e.flush(ctx)
	e.updateGauges()

	ts := e.now().UTC()
	for _, c := range conflicts {
		e.bus.Publish(events.AssignmentCleared{Owner: c.Current.Owner, ResourceType: res.Type, ClearedItems: []string{res.ID}, Timestamp: ts})
	}
	if displaced != "" {
		e.bus.Publish(events.AssignmentCleared{Owner: owner, ResourceType: res.Type, ClearedItems: []string{displaced}, Timestamp: ts})
		released = append(released, model.ResourceRef{Type: res.Type, ID: displaced})
	}
	e.bus.Publish(events.AssignmentCreated{ResourceType: res.Type, ResourceID: res.ID, Owner: owner, Role: role, Timestamp: ts})

	e.log.Infof("%s assigned to %s as %s", res, owner, role)
	e.notifier.Notify(fmt.Sprintf("%s assigned to %s as %s", res, owner, role), SeveritySuccess)
	return Result{OK: true, Conflicts: conflicts, Cleared: released}
}

func (e *Engine) clear(ctx context.Context, owner model.OwnerRef, role model.Role, resourceID string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !owner.Kind.Valid() || !e.rules.Directory().HasOwner(owner) {
		return e.reject(CodeOwnerNotFound, fmt.Sprintf("%s does not exist", owner))
	}
	if _, known := role.ResourceType(); role != "" && !known {
		return e.reject(CodeInvalidRole, fmt.Sprintf("unknown role %q", role))
	}
	return e.clearLocked(ctx, owner, role, resourceID)
}

func (e *Engine) clearLocked(ctx context.Context, owner model.OwnerRef, role model.Role, resourceID string) Result {
	cleared := e.store.Clear(owner, role, resourceID)
	if len(cleared) == 0 {
		if resourceID != "" {
			return failed(CodeNotAssigned, fmt.Sprintf("%s is not assigned to %s", resourceID, owner))
		}
		return unchanged(fmt.Sprintf("nothing to clear on %s", owner))
	}
	clearsTotal.WithLabelValues(string(owner.Kind)).Add(float64(len(cleared)))
	e.checkConsistency()

	ids := make([]string, 0, len(cleared))
	for _, c := range cleared {
		ids = append(ids, c.ID)
	}
	rt := uniformType(cleared)
	entry := e.history.Append(model.HistoryEntry{
		Kind: model.HistoryCleared, Owner: owner, Resources: ids, ResourceType: rt, Role: role,
	})
	e.record([]model.HistoryEntry{entry})
	e.flush(ctx)
	e.updateGauges()
	e.bus.Publish(events.AssignmentCleared{Owner: owner, ResourceType: rt, ClearedItems: ids, Timestamp: e.now().UTC()})
	e.log.Infof("cleared %v from %s", ids, owner)
	e.notifier.Notify(fmt.Sprintf("Cleared %d assignment(s) from %s", len(ids), owner), SeverityInfo)
	return Result{OK: true, Cleared: cleared}
}

// decider applies the relocation policy to the configured confirmer.
func (e *Engine) decider() Confirmer {
	if e.cfg.Relocation == RelocationAuto {
		return StaticConfirmer(true)
	}
	if e.confirmer == nil {
		return StaticConfirmer(false)
	}
	return e.confirmer
}

func (e *Engine) reject(code Code, reason string) Result {
	validationFailures.WithLabelValues(string(code)).Inc()
	e.log.Debugw("assignment rejected", map[string]any{"code": string(code), "reason": reason})
	e.notifier.Notify(reason, SeverityWarning)
	return failed(code, reason)
}

// checkConsistency verifies both index directions and rebuilds the reverse
// indices when they disagree with the forward records.
func (e *Engine) checkConsistency() {
	issues := e.store.Verify()
	if len(issues) == 0 {
		return
	}
	details := make([]string, 0, len(issues))
	for _, i := range issues {
		details = append(details, i.String())
	}
	e.log.Errorw("board index mismatch, rebuilding reverse index", map[string]any{"issues": details})
	consistencyRepairs.Inc()
	e.store.RebuildIndex()
	entry := e.history.Append(model.HistoryEntry{
		Kind: model.HistoryRepaired, Resources: resourceIDs(issues), Note: fmt.Sprintf("%d inconsistencies repaired", len(issues)),
	})
	e.record([]model.HistoryEntry{entry})
	if left := e.store.Verify(); len(left) > 0 {
		e.log.Errorf("board still inconsistent after rebuild: %d issues", len(left))
	}
}

// flush writes the whole board. Failures are logged and the board keeps
// running from memory.
func (e *Engine) flush(ctx context.Context) {
	if e.persist == nil {
		return
	}
	st := e.store.Snapshot()
	st.History = e.history.Entries()
	st.SavedAt = e.now().UTC()
	if err := e.persist.Save(ctx, st); err != nil {
		persistFailures.WithLabelValues("save").Inc()
		e.log.Errorf("save board state: %v", err)
		e.notifier.Notify("Assignments could not be saved; changes are kept in memory only", SeverityWarning)
	}
}

func (e *Engine) record(entries []model.HistoryEntry) {
	if err := e.audit.RecordHistory(entries); err != nil {
		e.log.Warnf("audit sink: %v", err)
	}
}

func (e *Engine) updateGauges() {
	staff, assets := e.store.Counts()
	boundResources.WithLabelValues(string(model.ResourceStaff)).Set(float64(staff))
	boundResources.WithLabelValues(string(model.ResourceAsset)).Set(float64(assets))
}

func uniformType(refs []model.ResourceRef) model.ResourceType {
	if len(refs) == 0 {
		return ""
	}
	t := refs[0].Type
	for _, r := range refs[1:] {
		if r.Type != t {
			return ""
		}
	}
	return t
}

func resourceIDs(issues []Inconsistency) []string {
	ids := make([]string, 0, len(issues))
	for _, i := range issues {
		ids = append(ids, i.Resource.ID)
	}
	return ids
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
func (nopLogger) Errorw(string, map[string]any) {}
