package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/config"
	"github.com/nicolascalev/toptierperk-api/internal/database"
	"github.com/nicolascalev/toptierperk-api/internal/handlers"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/routes"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a file-backed SQLite database in a temp dir and runs
// the full migration set.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "toptierperk-test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db
	return db
}

// TestConfig returns a config suitable for tests.
func TestConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret-key-for-testing",
		JWTAccessExpiry:     time.Hour,
		JWTRefreshExpiry:    24 * time.Hour,
		PaypalWebhookSecret: "test-webhook-secret",
	}
}

var seq struct {
	mu sync.Mutex
	n  int
}

func next() int {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	seq.n++
	return seq.n
}

// CreateTestBusiness creates a business; paid controls paid_membership.
func CreateTestBusiness(t *testing.T, db *gorm.DB, name string, paid bool) *models.Business {
	t.Helper()

	business := &models.Business{
		Name:           fmt.Sprintf("%s-%d", name, next()),
		Email:          fmt.Sprintf("contact-%d@example.com", next()),
		PaidMembership: paid,
	}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("failed to create test business: %v", err)
	}
	return business
}

// CreateTestUser creates a user. business may be nil for a user with no
// employer; admin connects the user as the business's administrator.
func CreateTestUser(t *testing.T, db *gorm.DB, business *models.Business, admin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := next()
	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", n),
		Email:    fmt.Sprintf("user-%d@example.com", n),
		Username: fmt.Sprintf("user%d", n),
		Password: string(hash),
	}
	if business != nil {
		user.BusinessID = &business.ID
		if admin {
			user.AdminOfID = &business.ID
		}
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBenefit creates an active public perk supplied by the business.
func CreateTestBenefit(t *testing.T, db *gorm.DB, supplier *models.Business, name string) *models.Benefit {
	t.Helper()

	benefit := &models.Benefit{
		Name:       name,
		SupplierID: supplier.ID,
		IsActive:   true,
	}
	if err := db.Create(benefit).Error; err != nil {
		t.Fatalf("failed to create test benefit: %v", err)
	}
	return benefit
}

// AcquireBenefit adds the business to the perk's beneficiaries directly.
func AcquireBenefit(t *testing.T, db *gorm.DB, benefit *models.Benefit, business *models.Business) {
	t.Helper()

	if err := db.Model(benefit).Association("Beneficiaries").Append(business); err != nil {
		t.Fatalf("failed to acquire benefit: %v", err)
	}
}

// MakeAvailableFor lists the business in the perk's available_for set.
func MakeAvailableFor(t *testing.T, db *gorm.DB, benefit *models.Benefit, business *models.Business) {
	t.Helper()

	if err := db.Model(benefit).Association("AvailableFor").Append(business); err != nil {
		t.Fatalf("failed to list benefit for business: %v", err)
	}
}

// GenerateToken issues an access token with the same claims the auth service
// writes.
func GenerateToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(user.ID), 10),
		"email":      user.Email,
		"can_verify": user.CanVerify,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(cfg.JWTAccessExpiry).Unix(),
	}
	if user.BusinessID != nil {
		claims["business_id"] = *user.BusinessID
	}
	if user.AdminOfID != nil {
		claims["admin_of"] = *user.AdminOfID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request carrying a bearer token.
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// DecodeJSON unmarshals a response body into out.
func DecodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// TestSetup bundles everything a handler test needs.
type TestSetup struct {
	App      *fiber.App
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier *RecordingNotifier
}

// NewTestApp builds a fully wired application on a fresh test database.
func NewTestApp(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	cfg := TestConfig()
	notifier := &RecordingNotifier{}

	authService := services.NewAuthService(db, cfg)
	businessService := services.NewBusinessService(db)
	employeeService := services.NewEmployeeService(db, notifier)
	benefitService := services.NewBenefitService(db)
	claimService := services.NewClaimService(db)
	feedbackService := services.NewFeedbackService(db)
	subscriptionService := services.NewSubscriptionService(db)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewBusinessHandler(businessService, employeeService),
		handlers.NewBenefitHandler(benefitService),
		handlers.NewClaimHandler(claimService),
		handlers.NewFeedbackHandler(feedbackService),
		handlers.NewWebhookHandler(subscriptionService, cfg),
		handlers.NewHealthHandler(),
	)

	return &TestSetup{App: app, DB: db, Cfg: cfg, Notifier: notifier}
}

// RecordingNotifier implements services.Notifier and records dispatches.
type RecordingNotifier struct {
	mu          sync.Mutex
	RoleChanges []RecordedNotification
	Removals    []RecordedNotification
}

type RecordedNotification struct {
	UserID       uint
	Email        string
	BusinessName string
	Role         string
}

func (n *RecordingNotifier) NotifyRoleChanged(user *models.User, businessName, role string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.RoleChanges = append(n.RoleChanges, RecordedNotification{
		UserID: user.ID, Email: user.Email, BusinessName: businessName, Role: role,
	})
	return nil
}

func (n *RecordingNotifier) NotifyEmployeeRemoved(user *models.User, businessName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Removals = append(n.Removals, RecordedNotification{
		UserID: user.ID, Email: user.Email, BusinessName: businessName,
	})
	return nil
}
