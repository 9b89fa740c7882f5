package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"estatehub/internal/config"
	"estatehub/internal/database"
	"estatehub/internal/domain/auth"
	"estatehub/internal/domain/lead"
	"estatehub/internal/domain/listing"
	"estatehub/internal/domain/notification"
	"estatehub/internal/domain/verification"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&verification.Request{},
		&listing.Listing{},
		&lead.Lead{},
		&notification.Notification{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM listings")
	db.Exec("DELETE FROM verification_requests")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	now := time.Now()

	superHash, _ := bcrypt.GenerateFromPassword([]byte("super123"), bcrypt.DefaultCost)
	superAdmin := auth.User{
		Email:              "super@estatehub.io",
		PasswordHash:       string(superHash),
		Role:               auth.RoleSuperAdmin,
		Name:               "Super Admin",
		IsVerified:         true,
		VerificationStatus: auth.StatusApproved,
	}
	db.Create(&superAdmin)
	log.Println("Super admin created: super@estatehub.io / super123")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := auth.User{
		Email:              "admin@estatehub.io",
		PasswordHash:       string(adminHash),
		Role:               auth.RoleAdmin,
		Name:               "Admin",
		IsVerified:         true,
		VerificationStatus: auth.StatusApproved,
		VerifiedBy:         &superAdmin.ID,
		VerifiedAt:         &now,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@estatehub.io / admin123")

	// Approved agents (3 users)
	agents := []auth.User{}
	agentEmails := []string{"maria@estatehub.io", "john@estatehub.io", "li@estatehub.io"}
	for i, email := range agentEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("agent123"), bcrypt.DefaultCost)
		agent := auth.User{
			Email:              email,
			PasswordHash:       string(hash),
			Role:               auth.RoleUser,
			Name:               fmt.Sprintf("Agent %d", i+1),
			Phone:              fmt.Sprintf("+1 555 010 00%02d", i+10),
			Position:           "Listing Agent",
			IsVerified:         true,
			VerificationStatus: auth.StatusApproved,
			VerifiedBy:         &admin.ID,
			VerifiedAt:         &now,
		}
		db.Create(&agent)
		agents = append(agents, agent)

		db.Create(&verification.Request{
			UserID:     agent.ID,
			Name:       agent.Name,
			Email:      agent.Email,
			Phone:      agent.Phone,
			Position:   agent.Position,
			Status:     verification.StatusApproved,
			ReviewedBy: &admin.ID,
			ReviewedAt: &now,
		})
	}

	// One pending applicant waiting for review
	pendingHash, _ := bcrypt.GenerateFromPassword([]byte("pending123"), bcrypt.DefaultCost)
	pending := auth.User{
		Email:        "newagent@estatehub.io",
		PasswordHash: string(pendingHash),
		Role:         auth.RoleUser,
		Name:         "New Agent",
		Position:     "Listing Agent",
	}
	db.Create(&pending)
	db.Create(&verification.Request{
		UserID:   pending.ID,
		Name:     pending.Name,
		Email:    pending.Email,
		Position: pending.Position,
	})
	log.Println("Pending applicant created: newagent@estatehub.io / pending123")

	// ================== LISTINGS ==================
	log.Println("Creating listings...")

	cities := []string{"Austin", "Denver", "Seattle", "Miami", "Portland"}
	for i := 0; i < 10; i++ {
		agent := agents[i%len(agents)]
		l := listing.Listing{
			Title:          fmt.Sprintf("%d-bedroom home in %s", 2+i%3, cities[i%len(cities)]),
			Description:    "Bright, recently renovated, close to schools and transit.",
			Price:          250000 + float64(rand.Intn(500))*1000,
			Address:        fmt.Sprintf("%d Oak Street", 100+i),
			City:           cities[i%len(cities)],
			State:          "TX",
			Bedrooms:       2 + i%3,
			Bathrooms:      1 + i%2,
			Area:           90 + float64(rand.Intn(120)),
			Status:         listing.StatusAvailable,
			ApprovalStatus: listing.ApprovalApproved,
			AgentID:        agent.ID,
			ApprovedBy:     &admin.ID,
			ApprovedAt:     &now,
		}
		// Leave a few in the moderation queue and one rejected
		switch {
		case i >= 8:
			l.ApprovalStatus = listing.ApprovalPending
			l.ApprovedBy = nil
			l.ApprovedAt = nil
		case i == 7:
			l.ApprovalStatus = listing.ApprovalRejected
			l.RejectionReason = "Address could not be verified"
			l.ApprovedBy = nil
			l.ApprovedAt = nil
		}
		db.Create(&l)
	}

	// ================== LEADS ==================
	log.Println("Creating leads...")

	weights := lead.DefaultScoreWeights()
	budgetMin, budgetMax := 200000.0, 400000.0
	leads := []lead.Lead{
		{
			Name:    "Dana Whitfield",
			Phone:   "15550100201",
			Email:   "dana@example.com",
			Message: "Looking for a three bedroom house with a garden, ideally close to downtown. We can move quickly.",
			Source:  lead.SourceLandingPage,
			Status:  lead.StatusNew,

			BudgetMin:     &budgetMin,
			BudgetMax:     &budgetMax,
			PreferredCity: "Austin",
			Tags:          datatypes.JSON([]byte(`["first-time-buyer","urgent"]`)),
		},
		{
			Name:   "Sam Ortiz",
			Phone:  "15550100202",
			Source: lead.SourceContactForm,
			Status: lead.StatusContacted,
		},
		{
			Phone:   "15550100203",
			Message: "Interested in rentals near the waterfront.",
			Source:  lead.SourceReferral,
			Status:  lead.StatusNew,
		},
	}
	for i := range leads {
		leads[i].Priority = lead.PriorityMedium
		leads[i].Score = weights.Score(&leads[i])
		leads[i].ConversionProbability = leads[i].Score / 2
		if leads[i].Status == lead.StatusContacted {
			leads[i].LastContactedAt = &now
			leads[i].AssignedTo = &agents[0].ID
			leads[i].AssignedBy = &admin.ID
			leads[i].AssignedAt = &now
		}
		db.Create(&leads[i])
	}

	log.Println("Seed complete")
}
