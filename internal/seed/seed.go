// Package seed populates the database with demo data for development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"azaunur/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func onConflictDoNothing() clause.OnConflict {
	return clause.OnConflict{DoNothing: true}
}

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var hashtags = []string{
	"golang", "music", "coffee", "travel", "gamedev", "fitness",
	"books", "photography", "food", "startups", "art", "cats",
}

// Seed fills the database with users and a plausible social mesh around them.
// Every generated account logs in with the password "Password123!".
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("seeded %d users", len(users))

	posts, err := createPosts(db, r, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	log.Printf("seeded %d posts", len(posts))

	if err := createSocialMesh(db, r, users); err != nil {
		return fmt.Errorf("create social mesh: %w", err)
	}
	if err := createEngagement(db, r, users, posts); err != nil {
		return fmt.Errorf("create engagement: %w", err)
	}
	if err := createMessages(db, r, users); err != nil {
		return fmt.Errorf("create messages: %w", err)
	}
	if err := createModerationQueue(db, r, users); err != nil {
		return fmt.Errorf("create moderation queue: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []any{
		&models.Notification{},
		&models.CommentLike{},
		&models.Comment{},
		&models.PostLike{},
		&models.Repost{},
		&models.SavedPost{},
		&models.PostView{},
		&models.Post{},
		&models.Message{},
		&models.Follow{},
		&models.Block{},
		&models.Report{},
		&models.VerificationRequest{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count+1)

	admin := &models.User{
		Handle:   "overseer",
		Email:    "overseer@example.com",
		Password: string(hash),
		Bio:      "keeping the lights on",
		IsAdmin:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < count; i++ {
		handle := strings.ToLower(gofakeit.Username())
		if len(handle) < 3 {
			handle += "_user"
		}
		if len(handle) > 30 {
			handle = handle[:30]
		}
		user := &models.User{
			Handle:   fmt.Sprintf("%s%d", handle, i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
			Bio:      gofakeit.Sentence(8),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func postBody(r *rand.Rand, users []*models.User) string {
	body := gofakeit.Sentence(6 + r.Intn(12))
	if r.Intn(3) == 0 {
		body += " #" + hashtags[r.Intn(len(hashtags))]
	}
	if r.Intn(5) == 0 {
		body += " @" + users[r.Intn(len(users))].Handle
	}
	return body
}

func createPosts(db *gorm.DB, r *rand.Rand, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			UserID:    author.ID,
			Body:      postBody(r, users),
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createSocialMesh(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	for _, user := range users {
		for i := 0; i < 3+r.Intn(8); i++ {
			target := users[r.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			follow := &models.Follow{FollowerID: user.ID, FolloweeID: target.ID}
			if err := db.Clauses(onConflictDoNothing()).Create(follow).Error; err != nil {
				return err
			}
		}
	}

	// A handful of blocks so visibility filtering has something to chew on.
	for i := 0; i < len(users)/10+1; i++ {
		blocker := users[r.Intn(len(users))]
		blocked := users[r.Intn(len(users))]
		if blocker.ID == blocked.ID {
			continue
		}
		block := &models.Block{BlockerID: blocker.ID, BlockedID: blocked.ID}
		if err := db.Clauses(onConflictDoNothing()).Create(block).Error; err != nil {
			return err
		}
	}
	return nil
}

func createEngagement(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for i := 0; i < r.Intn(6); i++ {
			fan := users[r.Intn(len(users))]
			like := &models.PostLike{UserID: fan.ID, PostID: post.ID}
			if err := db.Clauses(onConflictDoNothing()).Create(like).Error; err != nil {
				return err
			}
		}
		if r.Intn(4) == 0 {
			sharer := users[r.Intn(len(users))]
			repost := &models.Repost{UserID: sharer.ID, PostID: post.ID}
			if err := db.Clauses(onConflictDoNothing()).Create(repost).Error; err != nil {
				return err
			}
		}
		if r.Intn(5) == 0 {
			keeper := users[r.Intn(len(users))]
			saved := &models.SavedPost{UserID: keeper.ID, PostID: post.ID}
			if err := db.Clauses(onConflictDoNothing()).Create(saved).Error; err != nil {
				return err
			}
		}
		for i := 0; i < r.Intn(3); i++ {
			commenter := users[r.Intn(len(users))]
			comment := &models.Comment{
				UserID: commenter.ID,
				PostID: post.ID,
				Body:   gofakeit.Sentence(4 + r.Intn(10)),
			}
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createMessages(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	for i := 0; i < len(users)*2; i++ {
		sender := users[r.Intn(len(users))]
		receiver := users[r.Intn(len(users))]
		if sender.ID == receiver.ID {
			continue
		}
		message := &models.Message{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Body:       gofakeit.Sentence(3 + r.Intn(12)),
			Read:       r.Intn(2) == 0,
		}
		if err := db.Create(message).Error; err != nil {
			return err
		}
	}
	return nil
}

func createModerationQueue(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	if len(users) < 3 {
		return nil
	}
	for i := 0; i < 3; i++ {
		reporter := users[r.Intn(len(users))]
		reported := users[r.Intn(len(users))]
		if reporter.ID == reported.ID {
			continue
		}
		report := &models.Report{
			ReporterID: reporter.ID,
			ReportedID: reported.ID,
			Reason:     gofakeit.Sentence(6),
		}
		if err := db.Create(report).Error; err != nil {
			return err
		}
	}
	for i := 0; i < 2; i++ {
		applicant := users[1+r.Intn(len(users)-1)]
		request := &models.VerificationRequest{
			UserID: applicant.ID,
			Reason: gofakeit.Sentence(8),
		}
		if err := db.Create(request).Error; err != nil {
			return err
		}
	}
	return nil
}
