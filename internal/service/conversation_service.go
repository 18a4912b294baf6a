package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/event"
	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

const DefaultConversationPicture = "/images/defaults/conversation.png"

type conversationStore interface {
	ListForUser(ctx context.Context, userID string) ([]model.Conversation, error)
	FindByID(ctx context.Context, id string) (model.Conversation, error)
	FindDirect(ctx context.Context, a string, b string) (model.Conversation, error)
	Create(ctx context.Context, c model.Conversation) error
	Update(ctx context.Context, id string, upd model.ConversationUpdate) (model.Conversation, error)
	Delete(ctx context.Context, id string) error
	AddMessage(ctx context.Context, m model.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type ConversationService struct {
	conversations conversationStore
	users         userFinder
	events        event.Publisher
	now           func() time.Time
}

func NewConversationService(conversations conversationStore, users userFinder, events event.Publisher) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		users:         users,
		events:        events,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a one-to-one conversation with req.ReceiverID, reusing an existing one,
// or a group whose admin is the creator.
func (s *ConversationService) Create(ctx context.Context, creator model.User, req model.CreateConversationRequest) (model.Conversation, error) {
	if req.IsGroup {
		return s.createGroup(ctx, creator, req)
	}

	receiverID := strings.TrimSpace(req.ReceiverID)
	if receiverID == "" || len(req.Users) > 0 {
		return model.Conversation{}, apierror.Validation("receiver_id", "Exactly one receiver is required")
	}
	if receiverID == creator.ID {
		return model.Conversation{}, apierror.BadRequest("You cannot start a conversation with yourself")
	}

	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return model.Conversation{}, notFoundAs(err, "Receiver not found")
	}

	existing, err := s.conversations.FindDirect(ctx, creator.ID, receiver.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Conversation{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = receiver.Name
	}
	picture := req.Picture
	if picture == "" {
		picture = DefaultConversationPicture
	}

	now := s.now()
	c := model.Conversation{
		ID:        uuid.NewString(),
		Name:      name,
		Picture:   picture,
		Users:     []string{creator.ID, receiver.ID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversations.Create(ctx, c); err != nil {
		return model.Conversation{}, err
	}
	s.publish(event.TypeConversationCreated, creator.ID, c.Users, c)
	return c, nil
}

func (s *ConversationService) createGroup(ctx context.Context, creator model.User, req model.CreateConversationRequest) (model.Conversation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Conversation{}, apierror.Validation("name", "Group name is required")
	}

	others := dedupe(req.Users, creator.ID)
	if len(others) < 2 {
		return model.Conversation{}, apierror.Validation("users", "At least 2 other users are required to create a group")
	}
	for _, id := range others {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return model.Conversation{}, notFoundAs(err, "User not found")
		}
	}

	picture := req.Picture
	if picture == "" {
		picture = DefaultConversationPicture
	}

	now := s.now()
	adminID := creator.ID
	c := model.Conversation{
		ID:        uuid.NewString(),
		Name:      name,
		Picture:   picture,
		IsGroup:   true,
		Users:     append([]string{creator.ID}, others...),
		AdminID:   &adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversations.Create(ctx, c); err != nil {
		return model.Conversation{}, err
	}
	s.publish(event.TypeConversationCreated, creator.ID, c.Users, c)
	return c, nil
}

func (s *ConversationService) List(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.conversations.ListForUser(ctx, userID)
}

// Get is visible to members only.
func (s *ConversationService) Get(ctx context.Context, userID string, id string) (model.Conversation, error) {
	c, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return model.Conversation{}, notFoundAs(err, "Conversation not found")
	}
	if !c.HasMember(userID) {
		return model.Conversation{}, apierror.Forbidden("You are not a member of this conversation")
	}
	return c, nil
}

func (s *ConversationService) Update(ctx context.Context, userID string, id string, req model.UpdateConversationRequest) (model.Conversation, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return model.Conversation{}, err
	}
	if err := requireGroupAdmin(current, userID); err != nil {
		return model.Conversation{}, err
	}

	upd := model.ConversationUpdate{Name: req.Name, Picture: req.Picture}
	if req.Users != nil {
		if !current.IsGroup {
			return model.Conversation{}, apierror.BadRequest("Members of a direct conversation cannot be changed")
		}
		others := dedupe(*req.Users, userID)
		if len(others) < 2 {
			return model.Conversation{}, apierror.Validation("users", "At least 2 other users are required to create a group")
		}
		members := append([]string{userID}, others...)
		upd.Users = &members
	}

	c, err := s.conversations.Update(ctx, id, upd)
	if err != nil {
		return model.Conversation{}, notFoundAs(err, "Conversation not found")
	}
	s.publish(event.TypeConversationUpdated, userID, dedupe(slices.Concat(current.Users, c.Users), ""), c)
	return c, nil
}

func (s *ConversationService) Delete(ctx context.Context, userID string, id string) error {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := requireGroupAdmin(current, userID); err != nil {
		return err
	}
	return notFoundAs(s.conversations.Delete(ctx, id), "Conversation not found")
}

// SendMessage stores the message, advances the conversation and notifies its members.
func (s *ConversationService) SendMessage(ctx context.Context, userID string, conversationID string, req model.SendMessageRequest) (model.Message, error) {
	c, err := s.Get(ctx, userID, conversationID)
	if err != nil {
		return model.Message{}, err
	}

	files := req.Files
	if files == nil {
		files = []string{}
	}

	now := s.now()
	m := model.Message{
		ID:             uuid.NewString(),
		ConversationID: c.ID,
		SenderID:       userID,
		Message:        strings.TrimSpace(req.Message),
		Files:          files,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.conversations.AddMessage(ctx, m); err != nil {
		return model.Message{}, notFoundAs(err, "Conversation not found")
	}

	s.publish(event.TypeMessageCreated, userID, c.Users, m)
	return m, nil
}

func (s *ConversationService) Messages(ctx context.Context, userID string, conversationID string) ([]model.Message, error) {
	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.conversations.ListMessages(ctx, conversationID)
}

func (s *ConversationService) publish(typ event.Type, actorID string, audience []string, payload any) {
	s.events.Publish(event.New(typ, actorID, audience, payload))
}

func requireGroupAdmin(c model.Conversation, userID string) error {
	if c.IsGroup && (c.AdminID == nil || *c.AdminID != userID) {
		return apierror.Forbidden("Only the group admin can perform this action")
	}
	return nil
}

// dedupe drops blanks, duplicates and exclude from ids, keeping order.
func dedupe(ids []string, exclude string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == exclude || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
