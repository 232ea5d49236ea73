package models

import "strings"

// ContentOutline is the chapter-based document tree for content-shaped
// products.
type ContentOutline struct {
	Title          string         `json:"title"`
	Subtitle       string         `json:"subtitle,omitempty"`
	Chapters       []Chapter      `json:"chapters"`
	BonusContent   []BonusContent `json:"bonusContent,omitempty"`
	EstimatedPages int            `json:"estimatedPages,omitempty"`
	EstimatedWords int            `json:"estimatedWords,omitempty"`
}

// Chapter is one outline entry. Number is 1-based, contiguous, and matches the
// chapter's position; the HTML renderer uses it for table-of-contents text.
type Chapter struct {
	ID          string    `json:"id"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	KeyPoints   []string  `json:"keyPoints,omitempty"`
	Sections    []Section `json:"sections,omitempty"`

	// Generated-content fields, absent until a generation pass fills them in.
	Content            string   `json:"content,omitempty"`
	WordCount          int      `json:"wordCount,omitempty"`
	ReadingTimeMinutes int      `json:"readingTimeMinutes,omitempty"`
	KeyTakeaways       []string `json:"keyTakeaways,omitempty"`
}

// IsComplete reports whether the chapter has generated content.
func (c Chapter) IsComplete() bool {
	return strings.TrimSpace(c.Content) != ""
}

// ChapterContent carries only the generated-content fields of a chapter, for
// targeted merges that must leave title/description/keyPoints untouched.
type ChapterContent struct {
	Content            string   `json:"content"`
	WordCount          int      `json:"wordCount,omitempty"`
	ReadingTimeMinutes int      `json:"readingTimeMinutes,omitempty"`
	KeyTakeaways       []string `json:"keyTakeaways,omitempty"`
}

type Section struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type BonusContent struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
