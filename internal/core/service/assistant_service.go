package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

const (
	// nameMatchThreshold is the minimum fuzzy ratio for a query fragment to
	// count as a mention of a user.
	nameMatchThreshold = 70
	chatTopN           = 10
	maxMentionedTasks  = 20
)

type AssistantService struct {
	llm         ports.LanguageModel
	leaderboard ports.LeaderboardService
	tasks       ports.TaskRepository
	users       ports.UserRepository
	log         zerolog.Logger
}

func NewAssistantService(
	llm ports.LanguageModel,
	leaderboard ports.LeaderboardService,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *AssistantService {
	return &AssistantService{llm: llm, leaderboard: leaderboard, tasks: tasks, users: users, log: log}
}

func (s *AssistantService) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}
	return s.complete(ctx, systemPromptSummarize, text)
}

func (s *AssistantService) Translate(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(language) == "" {
		return "", fmt.Errorf("%w: text and language are required", domain.ErrInvalidInput)
	}
	return s.complete(ctx, fmt.Sprintf(systemPromptTranslate, language), text)
}

// SuggestTasks drafts tasks from a brief. Suggestions with a category outside
// the four tiers are dropped.
func (s *AssistantService) SuggestTasks(ctx context.Context, brief string) ([]ports.TaskSuggestion, error) {
	if strings.TrimSpace(brief) == "" {
		return nil, fmt.Errorf("%w: brief is empty", domain.ErrInvalidInput)
	}
	reply, err := s.complete(ctx, systemPromptSuggestTasks, brief)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		s.log.Warn().Err(err).Str("reply", reply).Msg("unparseable task suggestions")
		return nil, fmt.Errorf("%w: malformed suggestions", domain.ErrLanguageModel)
	}

	out := make([]ports.TaskSuggestion, 0, len(raw))
	for _, r := range raw {
		c, err := domain.ParseCategory(r.Category)
		if err != nil || strings.TrimSpace(r.Title) == "" {
			s.log.Debug().Str("title", r.Title).Str("category", r.Category).Msg("suggestion dropped")
			continue
		}
		out = append(out, ports.TaskSuggestion{
			Title:       strings.TrimSpace(r.Title),
			Description: strings.TrimSpace(r.Description),
			Category:    c,
		})
	}
	return out, nil
}

// Chat answers a performance question. Context comes from the same
// aggregator the leaderboard uses, so the assistant never contradicts it.
func (s *AssistantService) Chat(ctx context.Context, actor domain.Actor, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	data, err := s.chatContext(ctx, actor, query)
	if err != nil {
		return "", err
	}
	return s.complete(ctx, fmt.Sprintf(systemPromptChat, data), query)
}

func (s *AssistantService) chatContext(ctx context.Context, actor domain.Actor, query string) (string, error) {
	var b strings.Builder

	for _, mode := range []string{string(domain.ModeAllUsers), string(domain.ModeEmployeesOnly)} {
		res, err := s.leaderboard.Compute(ctx, mode, chatTopN)
		if err != nil {
			return "", fmt.Errorf("chat context: %w", err)
		}
		fmt.Fprintf(&b, "Leaderboard (%s, top %d of %d):\n", mode, len(res.Entries), res.Total)
		for _, e := range res.Entries {
			fmt.Fprintf(&b, "  #%d %s (%s): %d points, %d tasks completed\n", e.Rank, e.Name, e.Role, e.Score, e.TasksCompleted)
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return "", fmt.Errorf("chat context: %w", err)
	}
	mentioned := mentionedUsers(query, users)
	if actor.ID != "" {
		mentioned = appendUnique(mentioned, actor.ID)
	}

	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range mentioned {
		u, ok := byID[id]
		if !ok {
			continue
		}
		if err := s.writeUserDetail(ctx, &b, u); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (s *AssistantService) writeUserDetail(ctx context.Context, b *strings.Builder, u domain.User) error {
	st, err := s.leaderboard.Standing(ctx, u.ID, string(domain.ModeAllUsers))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("chat context: %w", err)
	}
	if st != nil {
		fmt.Fprintf(b, "\n%s (%s): rank %d of %d, %d points\n", u.Name, u.Role, st.Entry.Rank, st.Total, st.Entry.Score)
	}

	tasks, err := s.tasks.Find(ctx, ports.TaskFilter{Status: domain.StatusCompleted, Assignee: u.ID})
	if err != nil {
		return fmt.Errorf("chat context: %w", err)
	}
	for i := range tasks {
		if i == maxMentionedTasks {
			break
		}
		t := &tasks[i]
		bd, err := domain.ScoreTask(t)
		if err != nil {
			fmt.Fprintf(b, "  - %q: not scorable (%v)\n", t.Title, err)
			continue
		}
		fmt.Fprintf(b, "  - %q [%s]: base %d, bonus %d, late -%d, revisions -%d, total %d\n",
			t.Title, t.Category, bd.Base, bd.Bonus, bd.LatePenalty, bd.RevisionPenalty, bd.Total)
	}
	return nil
}

func (s *AssistantService) complete(ctx context.Context, system, user string) (string, error) {
	reply, err := s.llm.Complete(ctx, []ports.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		s.log.Error().Err(err).Msg("language model call failed")
		if errors.Is(err, domain.ErrLanguageModel) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrLanguageModel, err)
	}
	return strings.TrimSpace(reply), nil
}

// mentionedUsers returns the ids of users whose name fuzzily matches a run of
// words in the query of the same length as the name.
func mentionedUsers(query string, users []domain.User) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r == '\'' || r == '-' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})

	var ids []string
	for _, u := range users {
		name := strings.Fields(strings.ToLower(u.Name))
		if len(name) == 0 || len(name) > len(words) {
			continue
		}
		target := strings.Join(name, " ")
		for i := 0; i+len(name) <= len(words); i++ {
			if fuzzy.Ratio(target, strings.Join(words[i:i+len(name)], " ")) >= nameMatchThreshold {
				ids = appendUnique(ids, u.ID)
				break
			}
		}
	}
	return ids
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
