package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/events"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/validator"
)

// ===== MOCKS =====

type mockUserRepo struct {
	users map[uint]*models.User
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	user.ID = uint(len(m.users) + 100)
	m.users[user.ID] = user
	return nil
}
func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error { return nil }
func (m *mockUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.users, id)
	return nil
}
func (m *mockUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var result []*models.User
	for _, user := range m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		result = append(result, user)
	}
	return result, int64(len(result)), nil
}
func (m *mockUserRepo) ListIDsByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]uint, error) {
	var ids []uint
	for id, user := range m.users {
		if user.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
func (m *mockUserRepo) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, tx, username)
	return err == nil, nil
}
func (m *mockUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockStudentRepo struct {
	byUserID map[uint]*models.Student
}

func (m *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	return nil
}
func (m *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	for _, student := range m.byUserID {
		if student.ID == id {
			return student, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	if student, ok := m.byUserID[userID]; ok {
		return student, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockStudentRepo) GetByUSN(ctx context.Context, tx *gorm.DB, usn string) (*models.Student, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	return nil
}
func (m *mockStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	return nil, 0, nil
}
func (m *mockStudentRepo) ExistsByUSN(ctx context.Context, tx *gorm.DB, usn string) (bool, error) {
	for _, student := range m.byUserID {
		if student.USN == usn {
			return true, nil
		}
	}
	return false, nil
}

type mockProctorRepo struct {
	byUserID map[uint]*models.Proctor
}

func (m *mockProctorRepo) Create(ctx context.Context, tx *gorm.DB, proctor *models.Proctor) error {
	proctor.ID = uint(len(m.byUserID) + 1)
	m.byUserID[proctor.UserID] = proctor
	return nil
}
func (m *mockProctorRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Proctor, error) {
	for _, proctor := range m.byUserID {
		if proctor.ID == id {
			return proctor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockProctorRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Proctor, error) {
	if proctor, ok := m.byUserID[userID]; ok {
		return proctor, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockProctorRepo) Update(ctx context.Context, tx *gorm.DB, proctor *models.Proctor) error {
	return nil
}
func (m *mockProctorRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Proctor, int64, error) {
	var result []*models.Proctor
	for _, proctor := range m.byUserID {
		result = append(result, proctor)
	}
	return result, int64(len(result)), nil
}
func (m *mockProctorRepo) ExistsByEmployeeID(ctx context.Context, tx *gorm.DB, employeeID string) (bool, error) {
	for _, proctor := range m.byUserID {
		if proctor.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

type mockParticipationRepo struct {
	records map[uint]*models.Participation
	proofs  map[uint][]*models.ParticipationProof

	// loseRace simulates a concurrent reviewer winning between the initial
	// load and the conditional update.
	loseRace bool

	// failProofs simulates the proof insert failing mid-transaction.
	failProofs bool
}

func (m *mockParticipationRepo) Create(ctx context.Context, tx *gorm.DB, participation *models.Participation) error {
	participation.ID = uint(len(m.records) + 1)
	m.records[participation.ID] = participation
	return nil
}
func (m *mockParticipationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Participation, error) {
	if record, ok := m.records[id]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockParticipationRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Participation, error) {
	return m.GetByID(ctx, tx, id)
}
func (m *mockParticipationRepo) Update(ctx context.Context, tx *gorm.DB, participation *models.Participation) error {
	return nil
}
func (m *mockParticipationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }
func (m *mockParticipationRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ParticipationFilters) ([]*models.Participation, int64, error) {
	var result []*models.Participation
	for _, record := range m.records {
		if filters.StudentID != nil && record.StudentID != *filters.StudentID {
			continue
		}
		if filters.EventID != nil && (record.EventID == nil || *record.EventID != *filters.EventID) {
			continue
		}
		result = append(result, record)
	}
	return result, int64(len(result)), nil
}
func (m *mockParticipationRepo) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters repositories.ParticipationFilters) ([]*models.Participation, int64, error) {
	filters.StudentID = &studentID
	return m.List(ctx, tx, filters)
}
func (m *mockParticipationRepo) UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, id uint, status models.ParticipationStatus, feedback *string, reviewerID uint, reviewedAt time.Time) (int64, error) {
	record, ok := m.records[id]
	if !ok || m.loseRace || record.Status != models.ParticipationPending {
		return 0, nil
	}
	record.Status = status
	record.ProctorFeedback = feedback
	record.ReviewedBy = &reviewerID
	record.ReviewedAt = &reviewedAt
	return 1, nil
}
func (m *mockParticipationRepo) CreateProofs(ctx context.Context, tx *gorm.DB, proofs []*models.ParticipationProof) error {
	if m.failProofs {
		return errors.New("proof insert failed")
	}
	for _, proof := range proofs {
		m.proofs[proof.ParticipationID] = append(m.proofs[proof.ParticipationID], proof)
	}
	return nil
}
func (m *mockParticipationRepo) GetProofsByParticipationIDs(ctx context.Context, tx *gorm.DB, participationIDs []uint) (map[uint][]models.ParticipationProof, error) {
	return nil, nil
}

type mockEventRepo struct {
	events map[uint]*models.Event

	titleTaken bool
}

func (m *mockEventRepo) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	event.ID = uint(len(m.events) + 1)
	m.events[event.ID] = event
	return nil
}
func (m *mockEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	if event, ok := m.events[id]; ok {
		return event, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockEventRepo) Update(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return nil
}
func (m *mockEventRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.events, id)
	return nil
}
func (m *mockEventRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	return nil, 0, nil
}
func (m *mockEventRepo) ExistsByTitleAndDate(ctx context.Context, tx *gorm.DB, title string, startDate time.Time) (bool, error) {
	return m.titleTaken, nil
}

type mockRepository struct {
	user          *mockUserRepo
	student       *mockStudentRepo
	proctor       *mockProctorRepo
	participation *mockParticipationRepo
	event         *mockEventRepo
	notification  repositories.NotificationRepository
}

func (m *mockRepository) User() repositories.UserRepository                   { return m.user }
func (m *mockRepository) Student() repositories.StudentRepository             { return m.student }
func (m *mockRepository) Proctor() repositories.ProctorRepository             { return m.proctor }
func (m *mockRepository) Event() repositories.EventRepository                 { return m.event }
func (m *mockRepository) Participation() repositories.ParticipationRepository { return m.participation }
func (m *mockRepository) Notification() repositories.NotificationRepository   { return m.notification }
func (m *mockRepository) Dashboard() repositories.DashboardRepository         { return nil }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type notifyCall struct {
	userID uint
	role   models.UserRole
	title  string
}

type mockNotifier struct {
	userCalls []notifyCall
	roleCalls []notifyCall
}

func (m *mockNotifier) NotifyUser(ctx context.Context, userID uint, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) error {
	m.userCalls = append(m.userCalls, notifyCall{userID: userID, title: title})
	return nil
}
func (m *mockNotifier) NotifyRole(ctx context.Context, role models.UserRole, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) error {
	m.roleCalls = append(m.roleCalls, notifyCall{role: role, title: title})
	return nil
}
func (m *mockNotifier) List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	return nil, nil
}
func (m *mockNotifier) MarkRead(ctx context.Context, id uint, userID uint) error { return nil }
func (m *mockNotifier) MarkAllRead(ctx context.Context, userID uint) error       { return nil }

// ===== FIXTURES =====

func newTestService(repo *mockRepository, notifier *mockNotifier, publisher events.EventPublisher) *participationService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &participationService{
		repo:         repo,
		notification: notifier,
		publisher:    publisher,
		logger:       logger,
		validator:    validator.New(),
	}
}

func newTestRepository() *mockRepository {
	proctorID := uint(20)
	return &mockRepository{
		user: &mockUserRepo{users: map[uint]*models.User{
			1: {ID: 1, Username: "student", Role: models.RoleStudent, FirstName: "Asha", LastName: "Rao", IsActive: true},
			2: {ID: 2, Username: "proctor", Role: models.RoleProctor, FirstName: "Ravi", LastName: "Kumar", IsActive: true},
			3: {ID: 3, Username: "admin", Role: models.RoleAdmin, FirstName: "Site", LastName: "Admin", IsActive: true},
		}},
		student: &mockStudentRepo{byUserID: map[uint]*models.Student{
			1: {ID: 10, UserID: 1, USN: "1CR18CS001", Department: "Computer Science", Year: 3, Semester: 5, ProctorID: &proctorID},
		}},
		proctor: &mockProctorRepo{byUserID: map[uint]*models.Proctor{
			2: {ID: 20, UserID: 2, EmployeeID: "EMP001", Department: "Computer Science", Designation: "Assistant Professor"},
		}},
		participation: &mockParticipationRepo{
			records: map[uint]*models.Participation{},
			proofs:  map[uint][]*models.ParticipationProof{},
		},
		event: &mockEventRepo{events: map[uint]*models.Event{}},
	}
}

func pendingParticipation(id uint) *models.Participation {
	return &models.Participation{
		ID:           id,
		StudentID:    10,
		EventName:    "Hackathon 2024",
		Role:         "Participant",
		DurationDays: 2,
		Status:       models.ParticipationPending,
		SubmittedAt:  time.Now().UTC(),
		Student:      models.Student{ID: 10, UserID: 1, USN: "1CR18CS001"},
	}
}

func validCreateRequest() *CreateParticipationRequest {
	return &CreateParticipationRequest{
		EventName: "Hackathon 2024",
		Role:      "Participant",
		Proofs: []validator.ProofRequest{
			{FileName: "certificate.pdf", FileURL: "https://files.example.com/certificate.pdf", FileType: "application/pdf", FileSize: 204800},
		},
	}
}

// ===== SUBMISSION =====

func TestParticipationService_Create_Succeeds(t *testing.T) {
	repo := newTestRepository()
	notifier := &mockNotifier{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	service := newTestService(repo, notifier, publisher)

	response, err := service.Create(context.Background(), validCreateRequest(), 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if response.Status != models.ParticipationPending {
		t.Errorf("Expected status pending, got %s", response.Status)
	}
	if response.ReviewedBy != nil {
		t.Error("Fresh submission must not carry a reviewer")
	}
	if response.StudentID != 10 {
		t.Errorf("Expected student 10, got %d", response.StudentID)
	}
	if got := len(repo.participation.proofs[response.ID]); got != 1 {
		t.Fatalf("Expected 1 stored proof, got %d", got)
	}
	if repo.participation.proofs[response.ID][0].FileSize != 204800 {
		t.Error("Expected proof file size to be stored")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeParticipationSubmitted {
		t.Fatalf("Expected a submitted event, got %+v", published)
	}
}

func TestParticipationService_Create_ResolvesEventTitleFromCatalogue(t *testing.T) {
	repo := newTestRepository()
	repo.event.events[7] = &models.Event{ID: 7, Title: "Hackathon 2024", Category: models.EventCategoryHackathon, PostedBy: 3}
	service := newTestService(repo, &mockNotifier{}, nil)

	eventID := uint(7)
	req := &CreateParticipationRequest{
		EventID: &eventID,
		Role:    "Participant",
		Proofs: []validator.ProofRequest{
			{FileName: "certificate.pdf", FileURL: "https://files.example.com/certificate.pdf", FileType: "application/pdf", FileSize: 1024},
		},
	}

	response, err := service.Create(context.Background(), req, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if response.EventName != "Hackathon 2024" {
		t.Errorf("Expected catalogue title on the record, got %q", response.EventName)
	}
	if response.Status != models.ParticipationPending {
		t.Errorf("Expected status pending, got %s", response.Status)
	}
	if response.ReviewedBy != nil {
		t.Error("Fresh submission must not carry a reviewer")
	}
}

func TestParticipationService_Create_UnknownEvent(t *testing.T) {
	repo := newTestRepository()
	service := newTestService(repo, &mockNotifier{}, nil)

	eventID := uint(404)
	req := validCreateRequest()
	req.EventID = &eventID

	_, err := service.Create(context.Background(), req, 1)
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("Expected ErrEventNotFound, got %v", err)
	}
}

func TestParticipationService_Create_ProofFailureAborts(t *testing.T) {
	repo := newTestRepository()
	repo.participation.failProofs = true
	notifier := &mockNotifier{}
	service := newTestService(repo, notifier, nil)

	_, err := service.Create(context.Background(), validCreateRequest(), 1)
	if err == nil {
		t.Fatal("Expected error when proof insert fails, got nil")
	}
	if len(notifier.userCalls) != 0 {
		t.Error("Failed submission must not notify anyone")
	}
}

func TestParticipationService_Create_NotifiesAssignedProctor(t *testing.T) {
	repo := newTestRepository()
	notifier := &mockNotifier{}
	service := newTestService(repo, notifier, nil)

	_, err := service.Create(context.Background(), validCreateRequest(), 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(notifier.userCalls) != 1 {
		t.Fatalf("Expected 1 proctor notification, got %d", len(notifier.userCalls))
	}
	// Student 10 is assigned proctor profile 20, whose account is user 2
	if notifier.userCalls[0].userID != 2 {
		t.Errorf("Expected notification for user 2, got %d", notifier.userCalls[0].userID)
	}
	if len(notifier.roleCalls) != 0 {
		t.Errorf("Expected no role broadcasts, got %d", len(notifier.roleCalls))
	}
}

func TestParticipationService_Create_UnassignedStudentSkipsNotification(t *testing.T) {
	repo := newTestRepository()
	repo.student.byUserID[1].ProctorID = nil
	notifier := &mockNotifier{}
	service := newTestService(repo, notifier, nil)

	_, err := service.Create(context.Background(), validCreateRequest(), 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(notifier.userCalls) != 0 || len(notifier.roleCalls) != 0 {
		t.Error("Unassigned student submission must not produce a notification")
	}
}

func TestParticipationService_Create_RejectsNonStudents(t *testing.T) {
	repo := newTestRepository()
	service := newTestService(repo, &mockNotifier{}, nil)

	_, err := service.Create(context.Background(), validCreateRequest(), 2)
	if err == nil {
		t.Fatal("Expected error for proctor submission, got nil")
	}
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError, got %T: %v", err, err)
	}
	if permErr.Action != "create" {
		t.Errorf("Expected action 'create', got %q", permErr.Action)
	}
}

func TestParticipationService_Create_RequiresStudentProfile(t *testing.T) {
	repo := newTestRepository()
	// Student account without a profile row
	repo.user.users[5] = &models.User{ID: 5, Username: "orphan", Role: models.RoleStudent, FirstName: "No", LastName: "Profile", IsActive: true}
	service := newTestService(repo, &mockNotifier{}, nil)

	_, err := service.Create(context.Background(), validCreateRequest(), 5)
	if !errors.Is(err, ErrStudentProfileRequired) {
		t.Fatalf("Expected ErrStudentProfileRequired, got %v", err)
	}
}

func TestParticipationService_Create_RequiresProof(t *testing.T) {
	repo := newTestRepository()
	service := newTestService(repo, &mockNotifier{}, nil)

	req := &CreateParticipationRequest{
		EventName: "Hackathon 2024",
		Role:      "Participant",
	}

	_, err := service.Create(context.Background(), req, 1)
	if err == nil {
		t.Fatal("Expected validation error for missing proofs, got nil")
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
}

func TestParticipationService_Create_RequiresEventNameWithoutCatalogueLink(t *testing.T) {
	repo := newTestRepository()
	service := newTestService(repo, &mockNotifier{}, nil)

	req := validCreateRequest()
	req.EventName = ""

	_, err := service.Create(context.Background(), req, 1)
	if err == nil {
		t.Fatal("Expected validation error for missing event name, got nil")
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
}

// ===== REVIEW =====

func TestParticipationService_Review_Approve(t *testing.T) {
	repo := newTestRepository()
	repo.participation.records[1] = pendingParticipation(1)
	notifier := &mockNotifier{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	service := newTestService(repo, notifier, publisher)

	req := &ReviewParticipationRequest{Status: models.ParticipationApproved}

	response, err := service.Review(context.Background(), 1, req, 2)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if response.Status != models.ParticipationApproved {
		t.Errorf("Expected status approved, got %s", response.Status)
	}
	if response.ReviewedBy == nil || *response.ReviewedBy != 2 {
		t.Error("Expected reviewer to be recorded")
	}
	if response.CanReview {
		t.Error("Reviewed participation should not be reviewable again")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(published))
	}
	if published[0].Type != events.TypeParticipationReviewed {
		t.Errorf("Expected event type %q, got %q", events.TypeParticipationReviewed, published[0].Type)
	}

	if len(notifier.userCalls) != 1 {
		t.Fatalf("Expected 1 student notification, got %d", len(notifier.userCalls))
	}
	if notifier.userCalls[0].userID != 1 {
		t.Errorf("Expected notification for user 1, got %d", notifier.userCalls[0].userID)
	}
}

func TestParticipationService_Review_RejectRequiresFeedback(t *testing.T) {
	repo := newTestRepository()
	repo.participation.records[1] = pendingParticipation(1)
	service := newTestService(repo, &mockNotifier{}, nil)

	req := &ReviewParticipationRequest{Status: models.ParticipationRejected}

	_, err := service.Review(context.Background(), 1, req, 2)
	if err == nil {
		t.Fatal("Expected validation error for rejection without feedback, got nil")
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
}

func TestParticipationService_Review_AlreadyReviewed(t *testing.T) {
	repo := newTestRepository()
	record := pendingParticipation(1)
	record.Status = models.ParticipationApproved
	repo.participation.records[1] = record
	service := newTestService(repo, &mockNotifier{}, nil)

	req := &ReviewParticipationRequest{Status: models.ParticipationApproved}

	_, err := service.Review(context.Background(), 1, req, 2)
	if !errors.Is(err, ErrParticipationAlreadyReviewed) {
		t.Fatalf("Expected ErrParticipationAlreadyReviewed, got %v", err)
	}
}

func TestParticipationService_Review_LostRace(t *testing.T) {
	repo := newTestRepository()
	repo.participation.records[1] = pendingParticipation(1)
	repo.participation.loseRace = true
	service := newTestService(repo, &mockNotifier{}, nil)

	req := &ReviewParticipationRequest{Status: models.ParticipationApproved}

	_, err := service.Review(context.Background(), 1, req, 2)
	if !errors.Is(err, ErrParticipationAlreadyReviewed) {
		t.Fatalf("Expected ErrParticipationAlreadyReviewed on lost race, got %v", err)
	}
}

func TestParticipationService_Review_DeniedForStudents(t *testing.T) {
	repo := newTestRepository()
	repo.participation.records[1] = pendingParticipation(1)
	service := newTestService(repo, &mockNotifier{}, nil)

	req := &ReviewParticipationRequest{Status: models.ParticipationApproved}

	_, err := service.Review(context.Background(), 1, req, 1)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError, got %T: %v", err, err)
	}
}

// ===== LISTING =====

func TestParticipationService_List_ScopesStudentsToOwnRecords(t *testing.T) {
	repo := newTestRepository()
	repo.participation.records[1] = pendingParticipation(1)
	other := pendingParticipation(2)
	other.StudentID = 99
	repo.participation.records[2] = other
	service := newTestService(repo, &mockNotifier{}, nil)

	response, err := service.List(context.Background(), repositories.ParticipationFilters{Limit: 20}, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if response.Total != 1 {
		t.Fatalf("Expected 1 record for student, got %d", response.Total)
	}
	if response.Participations[0].StudentID != 10 {
		t.Errorf("Expected own record, got student %d", response.Participations[0].StudentID)
	}
}

func TestParticipationService_List_EmptyWithoutProfile(t *testing.T) {
	repo := newTestRepository()
	repo.user.users[5] = &models.User{ID: 5, Username: "orphan", Role: models.RoleStudent, FirstName: "No", LastName: "Profile", IsActive: true}
	repo.participation.records[1] = pendingParticipation(1)
	service := newTestService(repo, &mockNotifier{}, nil)

	response, err := service.List(context.Background(), repositories.ParticipationFilters{Limit: 20}, 5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(response.Participations) != 0 {
		t.Fatalf("Expected empty list without a profile, got %d", len(response.Participations))
	}
}

func TestParticipationService_List_ProctorsSeeEverything(t *testing.T) {
	repo := newTestRepository()
	repo.participation.records[1] = pendingParticipation(1)
	other := pendingParticipation(2)
	other.StudentID = 99
	repo.participation.records[2] = other
	service := newTestService(repo, &mockNotifier{}, nil)

	response, err := service.List(context.Background(), repositories.ParticipationFilters{Limit: 20}, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if response.Total != 2 {
		t.Fatalf("Expected 2 records for proctor, got %d", response.Total)
	}
	for _, p := range response.Participations {
		if !p.CanReview {
			t.Error("Proctor should be able to review pending records")
		}
	}
}

// ===== DETAIL ACCESS =====

// The detail path applies the same ownership rule as the list: students read
// only their own records, reviewers read everything.
func TestParticipationService_CanView_MatchesListScoping(t *testing.T) {
	repo := newTestRepository()
	service := newTestService(repo, &mockNotifier{}, nil)

	own := pendingParticipation(1)
	foreign := pendingParticipation(2)
	foreign.StudentID = 99

	cases := []struct {
		name   string
		record *models.Participation
		userID uint
		want   bool
	}{
		{"student reads own record", own, 1, true},
		{"student denied foreign record", foreign, 1, false},
		{"proctor reads any record", foreign, 2, true},
		{"admin reads any record", foreign, 3, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.CanView(context.Background(), tc.record, tc.userID)
			if err != nil {
				t.Fatalf("CanView failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParticipationService_GetByID_DeniedForForeignStudent(t *testing.T) {
	repo := newTestRepository()
	foreign := pendingParticipation(1)
	foreign.StudentID = 99
	repo.participation.records[1] = foreign
	service := newTestService(repo, &mockNotifier{}, nil)

	_, err := service.GetByID(context.Background(), 1, 1)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError, got %T: %v", err, err)
	}
}
