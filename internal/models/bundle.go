package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	CollectionBundles = "bundles"
	CollectionGoals   = "goals"
)

// BundleType enumerates the kinds of saved study artifacts.
type BundleType string

const (
	BundleStudyNotes      BundleType = "study-notes"
	BundleArticleAnalysis BundleType = "article-analysis"
	BundleFlashcards      BundleType = "flashcards"
	BundleQuiz            BundleType = "quiz"
)

// Valid reports whether t is a known bundle type.
func (t BundleType) Valid() bool {
	switch t {
	case BundleStudyNotes, BundleArticleAnalysis, BundleFlashcards, BundleQuiz:
		return true
	}
	return false
}

// SavedBundle is one persisted library entry. Bundles are append-only: they
// are created once by an explicit save and never mutated afterwards.
// Collection: bundles.
type SavedBundle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Topic     string             `bson:"topic" json:"topic"`
	Type      BundleType         `bson:"type" json:"type"`
	Content   BundleContent      `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// BundleContent is the type-specific payload of a SavedBundle. Exactly the
// fields matching the bundle type are populated; the rest stay empty and are
// omitted from the stored document.
type BundleContent struct {
	StudyNotes           string            `bson:"study_notes,omitempty" json:"study_notes,omitempty"`
	Summary              string            `bson:"summary,omitempty" json:"summary,omitempty"`
	Flashcards           []Flashcard       `bson:"flashcards,omitempty" json:"flashcards,omitempty"`
	Quiz                 []QuizQuestion    `bson:"quiz,omitempty" json:"quiz,omitempty"`
	VocabularyAndPhrases []VocabularyEntry `bson:"vocabulary_and_phrases,omitempty" json:"vocabulary_and_phrases,omitempty"`
}

// Flashcard is one question/answer pair.
type Flashcard struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// QuizQuestion is a multiple-choice question. Options always contains the
// correct answer.
type QuizQuestion struct {
	Question string   `bson:"question" json:"question"`
	Answer   string   `bson:"answer" json:"answer"`
	Options  []string `bson:"options" json:"options"`
}

// VocabularyEntry is one extracted term from an article analysis.
type VocabularyEntry struct {
	Term         string `bson:"term" json:"term"`
	PartOfSpeech string `bson:"part_of_speech" json:"partOfSpeech"`
	Definition   string `bson:"definition" json:"definition"`
	Example      string `bson:"example" json:"example"`
}
