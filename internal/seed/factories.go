// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"quill/internal/models"
	"quill/internal/profanity"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes the generated data set.
type Options struct {
	// MaxDays spreads comment creation times over the past MaxDays days so
	// the daily breakdown endpoint has something to report.
	MaxDays int
	// ProfanePercent is the rough share of posts/comments seeded with a
	// profane word so blocked-content paths get exercised.
	ProfanePercent int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db       *gorm.DB
	detector profanity.Detector
	opts     Options
	rng      *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, detector profanity.Detector, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	if opts.ProfanePercent <= 0 {
		opts.ProfanePercent = 10
	}
	return &Factory{
		db:       db,
		detector: detector,
		opts:     opts,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a sample user with its token. All seeded users share
// the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}

	token := &models.Token{
		Key:    gofakeit.UUID()[:32],
		UserID: user.ID,
	}
	if err := f.db.Create(token).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a sample post. Titles get a numeric suffix to keep the
// unique index happy across repeated runs.
func (f *Factory) CreatePost(overrides ...func(*models.Post)) (*models.Post, error) {
	title := fmt.Sprintf("%s #%d", gofakeit.Sentence(4), gofakeit.Number(1000, 999999))
	content := f.maybeProfane(gofakeit.Paragraph(1, 3, 5, "\n"))

	post := &models.Post{
		Title:   &title,
		Content: &content,
	}
	post.IsBlocked = f.detector.IsProfane(title) || f.detector.IsProfane(content)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment with a creation time spread over
// the past MaxDays days.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	text := f.maybeProfane(gofakeit.Sentence(8))

	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)

	comment := &models.Comment{
		Text:      text,
		PostID:    post.ID,
		AuthorID:  author.ID,
		IsBlocked: f.detector.IsProfane(text),
		DtCreated: time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// maybeProfane appends a profane word to roughly ProfanePercent of the
// generated texts so seeded data exercises the blocked paths.
func (f *Factory) maybeProfane(text string) string {
	if f.rng.Intn(100) < f.opts.ProfanePercent {
		return text + " damn"
	}
	return text
}
