package catalog

import "github.com/vytor/quizday/internal/models"

var builtinQuizzes = []models.Quiz{
	{
		ID:               "gen-001",
		Slug:             "general-knowledge-world-capitals",
		Title:            "World Capitals",
		Description:      "Test your knowledge of world capitals",
		Category:         "General Knowledge",
		Difficulty:       models.DifficultyMedium,
		EstimatedMinutes: 5,
		BannerImage:      "/static/img/world-capitals.svg",
		AccentColor:      "#3b82f6",
		Icon:             "🌍",
		Tags:             []string{"geography", "capitals", "world"},
		Questions: []models.Question{
			{
				ID:            "q1",
				Text:          "What is the capital of France?",
				Options:       []string{"London", "Paris", "Berlin", "Madrid"},
				CorrectAnswer: 1,
				Explanation:   "Paris has been the capital of France since the 12th century.",
			},
			{
				ID:            "q2",
				Text:          "Which city is the capital of Japan?",
				Options:       []string{"Osaka", "Kyoto", "Tokyo", "Yokohama"},
				CorrectAnswer: 2,
				Explanation:   "Tokyo became Japan's capital in 1868 during the Meiji Restoration.",
			},
			{
				ID:            "q3",
				Text:          "What is the capital of Australia?",
				Options:       []string{"Sydney", "Melbourne", "Canberra", "Brisbane"},
				CorrectAnswer: 2,
				Explanation:   "Canberra was purpose-built as the capital city in 1927.",
			},
		},
	},
	{
		ID:               "gen-002",
		Slug:             "general-knowledge-world-landmarks",
		Title:            "Famous Landmarks",
		Description:      "Identify famous landmarks from around the world",
		Category:         "General Knowledge",
		Difficulty:       models.DifficultyEasy,
		EstimatedMinutes: 4,
		BannerImage:      "/static/img/famous-landmarks.svg",
		AccentColor:      "#f59e0b",
		Icon:             "🏛️",
		Tags:             []string{"landmarks", "travel", "culture"},
		Questions: []models.Question{
			{
				ID:            "q1",
				Text:          "The Statue of Liberty is located in which city?",
				Options:       []string{"Boston", "Washington DC", "New York", "Philadelphia"},
				CorrectAnswer: 2,
				Explanation:   "The Statue of Liberty stands on Liberty Island in New York Harbor.",
			},
			{
				ID:            "q2",
				Text:          "Which country is the Great Wall located in?",
				Options:       []string{"India", "China", "Japan", "Vietnam"},
				CorrectAnswer: 1,
				Explanation:   "The Great Wall of China stretches over 13,000 miles across northern China.",
			},
		},
	},
	{
		ID:               "sci-001",
		Slug:             "science-physics-basics",
		Title:            "Physics Fundamentals",
		Description:      "Explore the basics of physics",
		Category:         "Science",
		Difficulty:       models.DifficultyMedium,
		EstimatedMinutes: 6,
		BannerImage:      "/static/img/physics.svg",
		AccentColor:      "#a855f7",
		Icon:             "⚛️",
		Tags:             []string{"physics", "science", "energy"},
		Questions: []models.Question{
			{
				ID:            "q1",
				Text:          "What is the SI unit of force?",
				Options:       []string{"Joule", "Newton", "Watt", "Pascal"},
				CorrectAnswer: 1,
				Explanation:   "The Newton (N) is the SI unit of force, named after Isaac Newton.",
			},
			{
				ID:            "q2",
				Text:          "What is the speed of light in vacuum?",
				Options:       []string{"300,000 km/s", "150,000 km/s", "500,000 km/s", "100,000 km/s"},
				CorrectAnswer: 0,
				Explanation:   "Light travels at approximately 299,792 km/s in vacuum.",
			},
			{
				ID:            "q3",
				Text:          "What does E=mc² represent?",
				Options:       []string{"Energy and momentum", "Mass-energy equivalence", "Force and acceleration", "Work and power"},
				CorrectAnswer: 1,
				Explanation:   "E=mc² shows the equivalence of mass and energy, proposed by Einstein.",
			},
		},
	},
	{
		ID:               "sci-002",
		Slug:             "science-biology-intro",
		Title:            "Biology 101",
		Description:      "Introduction to biology concepts",
		Category:         "Science",
		Difficulty:       models.DifficultyEasy,
		EstimatedMinutes: 5,
		BannerImage:      "/static/img/biology.svg",
		AccentColor:      "#10b981",
		Icon:             "🧬",
		Tags:             []string{"biology", "science", "cells"},
		Questions: []models.Question{
			{
				ID:            "q1",
				Text:          "What is the powerhouse of the cell?",
				Options:       []string{"Nucleus", "Mitochondria", "Ribosome", "Chloroplast"},
				CorrectAnswer: 1,
				Explanation:   "The mitochondria produces energy (ATP) for the cell.",
			},
			{
				ID:            "q2",
				Text:          "How many chromosomes do humans have?",
				Options:       []string{"23", "46", "92", "36"},
				CorrectAnswer: 1,
				Explanation:   "Humans have 46 chromosomes (23 pairs).",
			},
		},
	},
}
