package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/doctorprep/backend/core/question"
)

type questionFile struct {
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Category      string            `json:"category"`
	Difficulty    string            `json:"difficulty"`
	Explanation   string            `json:"explanation"`
}

// addQuestions loads an array of questions from a JSON file into the bank.
func (cli *commandLine) addQuestions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries []questionFile
	if err = json.Unmarshal(data, &entries); err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, entry := range entries {
		if !question.ValidLabel(entry.CorrectAnswer) {
			return fmt.Errorf("entry %d: invalid correct_answer %q", i, entry.CorrectAnswer)
		}
		q, err := cli.qstRepo.CreateQuestion(question.Question{
			Text:          entry.Text,
			Options:       entry.Options,
			CorrectAnswer: entry.CorrectAnswer,
			Category:      entry.Category,
			Difficulty:    entry.Difficulty,
			Explanation:   entry.Explanation,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}
		logger.Printf("added question %d: %s", q.ID, q.Text)
	}
	return nil
}
