package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediatordesk/helpdesk/internal/domain"
	"github.com/mediatordesk/helpdesk/internal/events"
	"github.com/mediatordesk/helpdesk/internal/observability"
	"github.com/mediatordesk/helpdesk/internal/repository"
	"github.com/mediatordesk/helpdesk/internal/workflow"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// TxRunner runs a function with a database transaction bound to its context.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TicketLocker serializes writers on a single ticket.
type TicketLocker interface {
	Acquire(ctx context.Context, ticketID string) (release func(), held bool, err error)
}

// TicketService coordinates the moderated ticket workflow: it loads
// aggregates, resolves actor roles from the directory, applies the pure
// state-machine rules and persists the outcome atomically.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	audit      repository.AuditRepository
	users      repository.UserRepository
	projects   repository.ProjectRepository
	tx         TxRunner
	locks      TicketLocker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	retries    int
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	AuditRepo   repository.AuditRepository
	UserRepo    repository.UserRepository
	ProjectRepo repository.ProjectRepository
	Tx          TxRunner
	Locks       TicketLocker
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Retries     int
	Now         func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	retries := deps.Retries
	if retries <= 0 {
		retries = 3
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		audit:      deps.AuditRepo,
		users:      deps.UserRepo,
		projects:   deps.ProjectRepo,
		tx:         deps.Tx,
		locks:      deps.Locks,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		retries:    retries,
		now:        now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	ProjectID   string
	Title       string
	Description string
}

// TransitionInput describes a requested ticket transition.
type TransitionInput struct {
	Action     workflow.Action
	AssigneeID string
	Reason     string
}

// MessageModerationInput describes a mediator decision on a message.
type MessageModerationInput struct {
	Action     workflow.MessageAction
	NewContent string
}

// CreateTicket raises a new ticket on behalf of the querent. The project's
// mediator is resolved from the membership roster; without one the request
// fails before anything is written.
func (s *TicketService) CreateTicket(ctx context.Context, querentID string, input TicketCreateInput) (*domain.Ticket, error) {
	querent, err := s.users.GetByID(ctx, querentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	mediators, err := s.users.ListByProjectRole(ctx, project.ID, domain.RoleMediator)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if len(mediators) == 0 {
		return nil, apperrors.NewNoMediatorAssigned(project.ID)
	}

	ticket, err := workflow.NewTicket(project, querent, mediators[0].ID, input.Title, input.Description, s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		return s.appendAuditEntries(ctx, ticket.AuditLog)
	})
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	observability.TicketsCreatedTotal.Inc()
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		Actor:     events.Actor{UserID: querentID, Role: roleOf(querent, project.ID)},
		Timestamp: s.now(),
		Payload: events.TicketCreatedPayload{
			ProjectID:  project.ID,
			MediatorID: ticket.MediatorID,
			Title:      ticket.Title,
		},
	})
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("project_id", project.ID),
		zap.String("querent_id", querentID))
	return ticket, nil
}

// Transition applies one of the post-creation ticket transitions under a
// per-ticket lock. Version conflicts trigger a reread and a fresh rule
// evaluation so a stale caller is judged against the current state.
func (s *TicketService) Transition(ctx context.Context, actorID, ticketID string, input TransitionInput) (*domain.Ticket, error) {
	release, held, err := s.locks.Acquire(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if !held {
		observability.LockContentionTotal.Inc()
		return nil, apperrors.NewConflict("ticket is being modified by another request",
			map[string]any{"ticket_id": ticketID})
	}
	defer release()

	for attempt := 0; attempt < s.retries; attempt++ {
		ticket, err := s.loadAggregate(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		actor, err := s.resolveActor(ctx, actorID, ticket.ProjectID)
		if err != nil {
			return nil, err
		}

		params := workflow.TransitionParams{Reason: input.Reason}
		if input.AssigneeID != "" {
			assignee, err := s.users.GetByID(ctx, input.AssigneeID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			params.Assignee = assignee
		}

		oldStatus := ticket.Status
		auditMark := len(ticket.AuditLog)
		if err := workflow.Transition(ticket, actor, input.Action, params, s.now()); err != nil {
			observability.TransitionErrorsTotal.WithLabelValues(apperrors.CodeOf(err)).Inc()
			return nil, err
		}

		err = s.persistTicket(ctx, ticket, nil, ticket.AuditLog[auditMark:])
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Debug("transition retry after version conflict",
				zap.String("ticket_id", ticketID), zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, apperrors.NewPersistenceFailure(err)
		}

		observability.TransitionsTotal.WithLabelValues(string(input.Action)).Inc()
		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketTransitioned,
			TicketID:  ticket.ID,
			Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
			Timestamp: s.now(),
			Payload: events.TicketTransitionedPayload{
				Action:    string(input.Action),
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
				Reason:    input.Reason,
			},
		})
		return ticket, nil
	}
	return nil, apperrors.NewConflict("ticket kept changing under concurrent writers",
		map[string]any{"ticket_id": ticketID})
}

// SendMessage appends a message to the ticket thread. Member speech lands
// in PENDING_APPROVAL and waits for the mediator; moderator speech is
// approved immediately and may advance the ticket status.
func (s *TicketService) SendMessage(ctx context.Context, senderID, ticketID, content string) (*domain.Message, error) {
	release, held, err := s.locks.Acquire(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if !held {
		observability.LockContentionTotal.Inc()
		return nil, apperrors.NewConflict("ticket is being modified by another request",
			map[string]any{"ticket_id": ticketID})
	}
	defer release()

	for attempt := 0; attempt < s.retries; attempt++ {
		ticket, err := s.loadAggregate(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		actor, err := s.resolveActor(ctx, senderID, ticket.ProjectID)
		if err != nil {
			return nil, err
		}

		auditMark := len(ticket.AuditLog)
		msg, err := workflow.SendMessage(ticket, actor, content, s.now())
		if err != nil {
			return nil, err
		}

		err = s.persistTicket(ctx, ticket, msg, ticket.AuditLog[auditMark:])
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, apperrors.NewPersistenceFailure(err)
		}

		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMessageSent,
			TicketID:  ticket.ID,
			Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
			Timestamp: s.now(),
			Payload: events.MessageSentPayload{
				MessageID:     msg.ID,
				SenderID:      senderID,
				MessageStatus: msg.Status,
			},
		})
		return msg, nil
	}
	return nil, apperrors.NewConflict("ticket kept changing under concurrent writers",
		map[string]any{"ticket_id": ticketID})
}

// ActOnMessage applies a moderation decision to one pending message.
func (s *TicketService) ActOnMessage(ctx context.Context, actorID, ticketID, messageID string, input MessageModerationInput) (*domain.Message, error) {
	release, held, err := s.locks.Acquire(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if !held {
		observability.LockContentionTotal.Inc()
		return nil, apperrors.NewConflict("ticket is being modified by another request",
			map[string]any{"ticket_id": ticketID})
	}
	defer release()

	for attempt := 0; attempt < s.retries; attempt++ {
		ticket, err := s.loadAggregate(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		actor, err := s.resolveActor(ctx, actorID, ticket.ProjectID)
		if err != nil {
			return nil, err
		}

		auditMark := len(ticket.AuditLog)
		msg, err := workflow.ModerateMessage(ticket, actor, messageID, input.Action, input.NewContent, s.now())
		if err != nil {
			return nil, err
		}

		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.tickets.Update(ctx, ticket); err != nil {
				return err
			}
			if err := s.messages.Update(ctx, msg); err != nil {
				return err
			}
			return s.appendAuditEntries(ctx, ticket.AuditLog[auditMark:])
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, apperrors.NewPersistenceFailure(err)
		}

		observability.MessagesModeratedTotal.WithLabelValues(string(msg.Status)).Inc()
		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMessageModerated,
			TicketID:  ticket.ID,
			Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
			Timestamp: s.now(),
			Payload: events.MessageModeratedPayload{
				MessageID:     msg.ID,
				SenderID:      msg.SenderID,
				MessageStatus: msg.Status,
				TicketStatus:  ticket.Status,
			},
		})
		return msg, nil
	}
	return nil, apperrors.NewConflict("ticket kept changing under concurrent writers",
		map[string]any{"ticket_id": ticketID})
}

// persistTicket writes the ticket row, an optional new message and the new
// audit entries as one transaction. A version conflict aborts the whole
// write so the caller can reread and retry.
func (s *TicketService) persistTicket(ctx context.Context, ticket *domain.Ticket, newMsg *domain.Message, newAudit []domain.AuditLogEntry) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return err
		}
		if newMsg != nil {
			if err := s.messages.Create(ctx, newMsg); err != nil {
				return err
			}
		}
		return s.appendAuditEntries(ctx, newAudit)
	})
}

func (s *TicketService) appendAuditEntries(ctx context.Context, entries []domain.AuditLogEntry) error {
	for i := range entries {
		if err := s.audit.Append(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// loadAggregate rebuilds the full ticket aggregate: row, thread and trail.
func (s *TicketService) loadAggregate(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Messages, err = s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	ticket.AuditLog, err = s.audit.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return ticket, nil
}

// resolveActor loads the user and pins down the role they hold in the
// ticket's project right now.
func (s *TicketService) resolveActor(ctx context.Context, userID, projectID string) (workflow.Actor, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return workflow.Actor{}, apperrors.MapError(err)
	}
	role, ok := user.RoleInProject(projectID)
	if !ok {
		return workflow.Actor{}, apperrors.NewMembershipViolation("user is not a member of the project",
			map[string]any{"user_id": userID, "project_id": projectID})
	}
	return workflow.Actor{ID: userID, Role: role}, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func roleOf(user *domain.User, projectID string) domain.Role {
	role, _ := user.RoleInProject(projectID)
	return role
}
