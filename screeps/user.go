package screeps

import (
	"context"
	"net/http"
	"net/url"
)

// FindUser returns the public profile of username.
func (s *Session) FindUser(ctx context.Context, username string) (*UserData, error) {
	const path = "/api/user/find"
	body, ok, err := s.call(ctx, http.MethodGet, path, url.Values{"username": {username}}, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	user, err := decodeEnvelope[UserData](path, "user", body)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Inbox lists the latest message per respondent.
func (s *Session) Inbox(ctx context.Context) ([]UserMessage, error) {
	const path = "/api/user/messages/index"
	body, ok, err := s.call(ctx, http.MethodGet, path, nil, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeEnvelope[[]UserMessage](path, "messages", body)
}

// Conversation lists the messages exchanged with one respondent.
func (s *Session) Conversation(ctx context.Context, respondentID string) ([]Message, error) {
	const path = "/api/user/messages/list"
	body, ok, err := s.call(ctx, http.MethodGet, path, url.Values{"respondent": {respondentID}}, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeEnvelope[[]Message](path, "messages", body)
}

// WorldStatus reports the state of the signed-in player's world, such as
// "normal", "lost" or "empty". ok is false when the server refused.
func (s *Session) WorldStatus(ctx context.Context) (status string, ok bool, err error) {
	const path = "/api/user/world-status"
	body, ok, err := s.call(ctx, http.MethodGet, path, nil, authOptional, nil)
	if err != nil || !ok {
		return "", false, err
	}
	status, err = decodeEnvelope[string](path, "status", body)
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}
