package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mehrap673/WellBud/models"

	"gorm.io/gorm"
)

type ChatService struct {
	db *gorm.DB
	ai *GeminiClient
}

func NewChatService(db *gorm.DB, ai *GeminiClient) *ChatService {
	return &ChatService{db: db, ai: ai}
}

const chatHistoryTurns = 6

const chatFallbackReply = "I'm having trouble reaching my knowledge base right now, but I'm still here for you. " +
	"In the meantime, keep up your logging streak — consistent tracking is the single best thing you can do for your health awareness. Try me again in a moment!"

// SendMessage appends the user's message, asks the assistant for a reply
// grounded in recent logs and conversation history, and appends the reply.
// Upstream failures degrade to a canned reply; the transcript stays valid.
func (s *ChatService) SendMessage(ctx context.Context, userID uint, message string) (string, error) {
	reply := chatFallbackReply

	if s.ai.Available() {
		prompt := s.chatPrompt(ctx, userID, message)
		text, err := s.ai.GenerateText(ctx, prompt, 400)
		if err != nil {
			log.Printf("chat upstream error: %v", err)
		} else {
			text = strings.TrimSpace(strings.TrimPrefix(text, "Health Mate:"))
			if text != "" {
				reply = text
			}
		}
	}

	now := time.Now()
	msgs := []models.ChatMessage{
		{UserID: userID, Sender: models.SenderUser, Content: message, Timestamp: now},
		{UserID: userID, Sender: models.SenderAI, Content: reply, Timestamp: now},
	}
	if err := s.db.WithContext(ctx).Create(&msgs).Error; err != nil {
		return "", err
	}

	if err := s.trimTranscript(ctx, userID); err != nil {
		return "", err
	}

	return reply, nil
}

func (s *ChatService) History(ctx context.Context, userID uint) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return msgs, err
}

func (s *ChatService) ClearHistory(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ChatMessage{}).Error
}

// trimTranscript enforces the FIFO cap: oldest rows beyond MaxChatMessages go.
func (s *ChatService) trimTranscript(ctx context.Context, userID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	excess := count - models.MaxChatMessages
	if excess <= 0 {
		return nil
	}

	var victims []uint
	if err := s.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("user_id = ?", userID).
		Order("timestamp ASC, id ASC").
		Limit(int(excess)).
		Pluck("id", &victims).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Unscoped().Delete(&models.ChatMessage{}, victims).Error
}

func (s *ChatService) chatPrompt(ctx context.Context, userID uint, message string) string {
	var sb strings.Builder

	sb.WriteString(`You are Health Mate, a warm, friendly, and supportive personal health assistant.

Your role:
- Provide personalized advice on diet, fitness, sleep, and mental wellbeing
- Be encouraging and motivational
- Give actionable, specific tips
- Keep responses concise (2-3 short paragraphs max)
- Be conversational and empathetic, never preachy or judgmental
- Reference the user's health data when relevant`)

	if summary := s.healthSummary(ctx, userID); summary != "" {
		sb.WriteString("\n\nUser Health Summary:")
		sb.WriteString(summary)
	}

	var history []models.ChatMessage
	_ = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(chatHistoryTurns).
		Find(&history).Error

	if len(history) > 0 {
		sb.WriteString("\n\nRecent conversation:\n")
		for i := len(history) - 1; i >= 0; i-- { // restore chronological order
			who := "User"
			if history[i].Sender == models.SenderAI {
				who = "Health Mate"
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", who, history[i].Content))
		}
	}

	sb.WriteString("\nUser: ")
	sb.WriteString(message)
	sb.WriteString("\n\nHealth Mate:")
	return sb.String()
}

// healthSummary condenses the user's 10 most recent logs into prompt context.
func (s *ChatService) healthSummary(ctx context.Context, userID uint) string {
	var recent []models.HealthLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil || len(recent) == 0 {
		return ""
	}

	byCat := map[string][]models.HealthLog{}
	for _, l := range recent {
		byCat[l.Category] = append(byCat[l.Category], l)
	}

	var sb strings.Builder
	if logs := byCat[models.CategoryDiet]; len(logs) > 0 {
		avg, _ := ComputeAverage(logs, "calories")
		sb.WriteString(fmt.Sprintf("\n- Diet: %d meals logged, avg %.0f calories", len(logs), avg))
	}
	if logs := byCat[models.CategoryFitness]; len(logs) > 0 {
		avg, _ := ComputeAverage(logs, "steps")
		sb.WriteString(fmt.Sprintf("\n- Fitness: %d workouts, avg %.0f steps", len(logs), avg))
	}
	if logs := byCat[models.CategorySleep]; len(logs) > 0 {
		avg, _ := ComputeAverage(logs, "hours")
		sb.WriteString(fmt.Sprintf("\n- Sleep: avg %.1f hours per night", avg))
	}
	if logs := byCat[models.CategoryMood]; len(logs) > 0 {
		avg, _ := ComputeAverage(logs, "energy")
		sb.WriteString(fmt.Sprintf("\n- Mood: avg energy %.1f/10", avg))
	}
	return sb.String()
}
