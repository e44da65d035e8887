package app

import (
	"time"

	"github.com/nguyentin082/poc-vexere/internal/chatapi"
)

// SeedSessions is the fallback history shown when the store cannot be
// reached. It is display-only sample content; ids are deliberately not
// store-issued ObjectIds, so delete attempts against them fail validation
// instead of hitting the wire.
func SeedSessions() []chatapi.Session {
	day := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	return []chatapi.Session{
		{
			ID:        "seed_003",
			Title:     "Complaint about trip quality",
			CreatedAt: at(19, 45),
			UpdatedAt: at(20, 10),
			Status:    chatapi.StatusPending,
			Messages: []chatapi.Message{
				{
					ID:        "seed_msg_11",
					Role:      chatapi.RoleUser,
					Content:   "My bus yesterday left two hours late and the air conditioning was broken.",
					Timestamp: at(19, 45),
					Attachments: []chatapi.Attachment{
						{Kind: chatapi.AttachmentImage, URL: "/placeholder.svg", Name: "broken_ac.jpg"},
					},
				},
				{
					ID:        "seed_msg_12",
					Role:      chatapi.RoleAssistant,
					Content:   "I'm sorry about that experience. Please share your ticket code so I can open a complaint with the operator.",
					Timestamp: at(19, 48),
				},
			},
		},
		{
			ID:        "seed_002",
			Title:     "Da Nang to Hoi An advice",
			CreatedAt: at(16, 20),
			UpdatedAt: at(16, 35),
			Status:    chatapi.StatusActive,
			Messages: []chatapi.Message{
				{
					ID:        "seed_msg_06",
					Role:      chatapi.RoleUser,
					Content:   "Is there a bus from Da Nang to Hoi An? How much is it?",
					Timestamp: at(16, 20),
				},
				{
					ID:        "seed_msg_07",
					Role:      chatapi.RoleAssistant,
					Content:   "Yes - route 01 runs every 30 minutes, takes about 45-60 minutes, tickets from 20,000 to 25,000 VND. Private shuttles are quicker and cost 30,000-50,000 VND.",
					Timestamp: at(16, 22),
				},
			},
		},
		{
			ID:        "seed_001",
			Title:     "Hanoi to Ho Chi Minh City tickets",
			CreatedAt: at(9, 0),
			UpdatedAt: at(9, 15),
			Status:    chatapi.StatusResolved,
			Messages: []chatapi.Message{
				{
					ID:        "seed_msg_01",
					Role:      chatapi.RoleUser,
					Content:   "Hi, I need a bus ticket from Hanoi to Ho Chi Minh City on January 15th.",
					Timestamp: at(9, 0),
				},
				{
					ID:        "seed_msg_02",
					Role:      chatapi.RoleAssistant,
					Content:   "There are sleeper buses at 06:00 (450,000 VND, 12 seats left) and a VIP sleeper at 22:00 (520,000 VND, 8 seats left). Would you like to book one?",
					Timestamp: at(9, 1),
				},
				{
					ID:        "seed_msg_03",
					Role:      chatapi.RoleUser,
					Content:   "The 6 AM one, please. How do I book?",
					Timestamp: at(9, 5),
				},
				{
					ID:        "seed_msg_04",
					Role:      chatapi.RoleAssistant,
					Content:   "You can book on the website or call the 24/7 hotline 1900 888 684. Have the passenger's full name and phone number ready.",
					Timestamp: at(9, 7),
				},
			},
		},
	}
}
