package main

import (
	"time"

	"github.com/doctorprep/backend/core/question"
)

// starterQuestions is the question bank a fresh install ships with.
var starterQuestions = []question.Question{
	{
		Text: "Which of the following is the primary pacemaker of the heart?",
		Options: map[string]string{
			"A": "AV node",
			"B": "SA node",
			"C": "Bundle of His",
			"D": "Purkinje fibers",
		},
		CorrectAnswer: "B",
		Category:      "Cardiology",
		Difficulty:    question.DifficultyEasy,
		Explanation:   "The SA (sinoatrial) node is the primary pacemaker of the heart, initiating electrical impulses at 60-100 bpm.",
	},
	{
		Text: "What is the mechanism of action of ACE inhibitors?",
		Options: map[string]string{
			"A": "Block angiotensin II receptors",
			"B": "Inhibit conversion of angiotensin I to angiotensin II",
			"C": "Block aldosterone receptors",
			"D": "Inhibit renin release",
		},
		CorrectAnswer: "B",
		Category:      "Pharmacology",
		Difficulty:    question.DifficultyMedium,
		Explanation:   "ACE inhibitors block the angiotensin-converting enzyme, preventing conversion of angiotensin I to angiotensin II.",
	},
	{
		Text: "Which cranial nerve is responsible for facial sensation?",
		Options: map[string]string{
			"A": "Cranial nerve V (Trigeminal)",
			"B": "Cranial nerve VII (Facial)",
			"C": "Cranial nerve IX (Glossopharyngeal)",
			"D": "Cranial nerve X (Vagus)",
		},
		CorrectAnswer: "A",
		Category:      "Anatomy",
		Difficulty:    question.DifficultyEasy,
		Explanation:   "The trigeminal nerve (CN V) provides sensory innervation to the face.",
	},
	{
		Text: "What is the most common cause of acute pancreatitis?",
		Options: map[string]string{
			"A": "Alcohol abuse",
			"B": "Gallstones",
			"C": "Hypertriglyceridemia",
			"D": "Medications",
		},
		CorrectAnswer: "B",
		Category:      "Gastroenterology",
		Difficulty:    question.DifficultyMedium,
		Explanation:   "Gallstones are the most common cause of acute pancreatitis, followed by alcohol abuse.",
	},
	{
		Text: "Which immunoglobulin crosses the placenta?",
		Options: map[string]string{
			"A": "IgA",
			"B": "IgM",
			"C": "IgG",
			"D": "IgE",
		},
		CorrectAnswer: "C",
		Category:      "Immunology",
		Difficulty:    question.DifficultyEasy,
		Explanation:   "IgG is the only immunoglobulin that can cross the placenta, providing passive immunity to the fetus.",
	},
}

// seed loads the starter question bank, but only into an empty bank.
func (cli *commandLine) seed() error {
	existing, err := cli.qstRepo.QueryAllQuestions()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Printf("question bank already has %d questions, skipping seed", len(existing))
		return nil
	}

	now := time.Now().UTC()
	for _, q := range starterQuestions {
		q.CreatedAt = now
		q.UpdatedAt = now
		created, err := cli.qstRepo.CreateQuestion(q)
		if err != nil {
			return err
		}
		logger.Printf("seeded question %d: %s", created.ID, created.Text)
	}
	return nil
}
