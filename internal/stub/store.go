package stub

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

var (
	errNotFound     = errors.New("not found")
	errEmailTaken   = errors.New("email already registered")
	errSlotTaken    = errors.New("slot already booked")
	errGrantExpired = errors.New("refresh token expired")
)

// Account is a seeded or registered login.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         domain.Role
}

type refreshGrant struct {
	accountID string
	expiresAt time.Time
}

// Store holds the stub's world in memory. It exists so the client can be
// exercised offline; nothing survives a restart on purpose.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*Account
	byEmail  map[string]string
	students map[string]*domain.StudentProfile
	teachers map[string]*domain.TeacherProfile
	slots    map[string]*domain.AvailabilitySlot
	bookings map[string]*domain.Booking
	payments map[string]*domain.Payment
	grants   map[string]refreshGrant
}

// NewStore builds an empty store and seeds the demo accounts.
func NewStore() *Store {
	s := &Store{
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
		students: make(map[string]*domain.StudentProfile),
		teachers: make(map[string]*domain.TeacherProfile),
		slots:    make(map[string]*domain.AvailabilitySlot),
		bookings: make(map[string]*domain.Booking),
		payments: make(map[string]*domain.Payment),
		grants:   make(map[string]refreshGrant),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	teacher, _ := s.CreateAccount("Tina Example", "tina@tutorhub.dev", "teachpass", domain.RoleTeacher)
	if teacher != nil {
		if p := s.teachers[teacher.ID]; p != nil {
			p.Subject = "Mathematics"
			p.HourlyRate = 40
			p.Bio = "Ten years of calculus tutoring."
			p.Rating = 4.8
		}
		start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
		for i := 0; i < 3; i++ {
			_, _ = s.AddSlot(teacher.ID, start.Add(time.Duration(i)*2*time.Hour), start.Add(time.Duration(i)*2*time.Hour+time.Hour))
		}
	}
	_, _ = s.CreateAccount("Sam Example", "sam@tutorhub.dev", "studypass", domain.RoleStudent)
	_, _ = s.CreateAccount("Ada Example", "ada@tutorhub.dev", "adminpass", domain.RoleAdmin)
}

// CreateAccount registers a login and its role-matched profile.
func (s *Store) CreateAccount(name, email, password string, role domain.Role) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return nil, errEmailTaken
	}

	acct := &Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	s.accounts[acct.ID] = acct
	s.byEmail[email] = acct.ID

	switch role {
	case domain.RoleTeacher:
		s.teachers[acct.ID] = &domain.TeacherProfile{ID: acct.ID, Name: name, Email: email}
	case domain.RoleStudent:
		s.students[acct.ID] = &domain.StudentProfile{ID: acct.ID, Name: name, Email: email}
	}
	return acct, nil
}

// Authenticate checks the password for email.
func (s *Store) Authenticate(email, password string) (*Account, error) {
	s.mu.Lock()
	id, ok := s.byEmail[email]
	acct := s.accounts[id]
	s.mu.Unlock()
	if !ok || acct == nil {
		return nil, errNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return nil, errNotFound
	}
	return acct, nil
}

// Account looks up a login by ID.
func (s *Store) Account(id string) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	return acct, ok
}

// IssueRefreshToken mints a long-lived opaque grant for the account.
func (s *Store) IssueRefreshToken(accountID string, ttl time.Duration) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.grants[token] = refreshGrant{accountID: accountID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return token
}

// RedeemRefreshToken resolves a grant to its account, rejecting expired or
// unknown tokens. The grant stays valid until it expires.
func (s *Store) RedeemRefreshToken(token string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.grants[token]
	if !ok {
		return nil, errNotFound
	}
	if time.Now().After(grant.expiresAt) {
		delete(s.grants, token)
		return nil, errGrantExpired
	}
	acct, ok := s.accounts[grant.accountID]
	if !ok {
		return nil, errNotFound
	}
	return acct, nil
}

// StudentProfile returns a copy of the student's profile.
func (s *Store) StudentProfile(id string) (*domain.StudentProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.students[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// UpdateStudentProfile replaces the mutable fields of a student profile.
func (s *Store) UpdateStudentProfile(id string, in domain.StudentProfile) (*domain.StudentProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.students[id]
	if !ok {
		return nil, errNotFound
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	p.GradeLvl = in.GradeLvl
	p.Bio = in.Bio
	cp := *p
	return &cp, nil
}

// TeacherProfile returns a copy of the teacher's profile.
func (s *Store) TeacherProfile(id string) (*domain.TeacherProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.teachers[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// UpdateTeacherProfile replaces the mutable fields of a teacher profile.
func (s *Store) UpdateTeacherProfile(id string, in domain.TeacherProfile) (*domain.TeacherProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.teachers[id]
	if !ok {
		return nil, errNotFound
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	p.Subject = in.Subject
	p.Bio = in.Bio
	p.HourlyRate = in.HourlyRate
	cp := *p
	return &cp, nil
}

// ListTeachers returns every teacher profile.
func (s *Store) ListTeachers() []domain.TeacherProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TeacherProfile, 0, len(s.teachers))
	for _, p := range s.teachers {
		out = append(out, *p)
	}
	return out
}

// AddSlot publishes a new availability window for the teacher.
func (s *Store) AddSlot(teacherID string, startsAt, endsAt time.Time) (*domain.AvailabilitySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[teacherID]; !ok {
		return nil, errNotFound
	}
	slot := &domain.AvailabilitySlot{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}
	s.slots[slot.ID] = slot
	cp := *slot
	return &cp, nil
}

// Slots lists a teacher's slots, optionally only the open ones.
func (s *Store) Slots(teacherID string, openOnly bool) []domain.AvailabilitySlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AvailabilitySlot, 0)
	for _, slot := range s.slots {
		if slot.TeacherID != teacherID {
			continue
		}
		if openOnly && slot.Booked {
			continue
		}
		out = append(out, *slot)
	}
	return out
}

// CreateBooking reserves a slot for the student. Price derives from the
// teacher's hourly rate and the slot length.
func (s *Store) CreateBooking(studentID, teacherID, slotID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	if !ok || slot.TeacherID != teacherID {
		return nil, errNotFound
	}
	if slot.Booked {
		return nil, errSlotTaken
	}
	teacher, ok := s.teachers[teacherID]
	if !ok {
		return nil, errNotFound
	}

	slot.Booked = true
	booking := &domain.Booking{
		ID:        uuid.NewString(),
		StudentID: studentID,
		TeacherID: teacherID,
		SlotID:    slotID,
		Status:    domain.BookingStatusPending,
		Price:     teacher.HourlyRate * slot.EndsAt.Sub(slot.StartsAt).Hours(),
		CreatedAt: time.Now(),
	}
	s.bookings[booking.ID] = booking
	cp := *booking
	return &cp, nil
}

// Booking looks one up.
func (s *Store) Booking(id string) (*domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	cp := *b
	return &cp, true
}

// BookingsByStudent lists a student's bookings.
func (s *Store) BookingsByStudent(studentID string) []domain.Booking {
	return s.bookingsWhere(func(b *domain.Booking) bool { return b.StudentID == studentID })
}

// BookingsByTeacher lists a teacher's bookings.
func (s *Store) BookingsByTeacher(teacherID string) []domain.Booking {
	return s.bookingsWhere(func(b *domain.Booking) bool { return b.TeacherID == teacherID })
}

func (s *Store) bookingsWhere(keep func(*domain.Booking) bool) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

// CancelBooking cancels one booking and releases its slot.
func (s *Store) CancelBooking(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(id)
}

// CancelTeacherBookings cancels every non-terminal booking the teacher holds.
func (s *Store) CancelTeacherBookings(teacherID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := 0
	for id, b := range s.bookings {
		if b.TeacherID != teacherID {
			continue
		}
		if b.Status == domain.BookingStatusPending || b.Status == domain.BookingStatusPaid {
			if s.cancelLocked(id) == nil {
				cancelled++
			}
		}
	}
	return cancelled
}

func (s *Store) cancelLocked(id string) error {
	b, ok := s.bookings[id]
	if !ok {
		return errNotFound
	}
	b.Status = domain.BookingStatusCancelled
	if slot, ok := s.slots[b.SlotID]; ok {
		slot.Booked = false
	}
	return nil
}

// CompleteBooking marks a paid booking delivered.
func (s *Store) CompleteBooking(id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, errNotFound
	}
	b.Status = domain.BookingStatusCompleted
	cp := *b
	return &cp, nil
}

// OpenCheckout creates the pending payment behind a checkout session.
func (s *Store) OpenCheckout(bookingID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, errNotFound
	}
	payment := &domain.Payment{
		ID:        uuid.NewString(),
		BookingID: b.ID,
		StudentID: b.StudentID,
		TeacherID: b.TeacherID,
		Amount:    b.Price,
		Status:    domain.PaymentStatusPending,
		CreatedAt: time.Now(),
	}
	s.payments[payment.ID] = payment
	cp := *payment
	return &cp, nil
}

// SettleCheckout resolves the booking's pending payment. Success marks the
// booking paid; cancellation leaves it pending so the student can retry.
func (s *Store) SettleCheckout(bookingID string, succeeded bool) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, errNotFound
	}
	var payment *domain.Payment
	for _, p := range s.payments {
		if p.BookingID == bookingID && p.Status == domain.PaymentStatusPending {
			payment = p
			break
		}
	}
	if payment == nil {
		return nil, errNotFound
	}
	if succeeded {
		payment.Status = domain.PaymentStatusSucceeded
		b.Status = domain.BookingStatusPaid
	} else {
		payment.Status = domain.PaymentStatusCancelled
	}
	cp := *payment
	return &cp, nil
}

// PaymentsByTeacher lists settled and pending payments to a teacher.
func (s *Store) PaymentsByTeacher(teacherID string) []domain.Payment {
	return s.paymentsWhere(func(p *domain.Payment) bool { return p.TeacherID == teacherID })
}

// PaymentsByStudent lists a student's payments.
func (s *Store) PaymentsByStudent(studentID string) []domain.Payment {
	return s.paymentsWhere(func(p *domain.Payment) bool { return p.StudentID == studentID })
}

func (s *Store) paymentsWhere(keep func(*domain.Payment) bool) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Payment, 0)
	for _, p := range s.payments {
		if keep(p) {
			out = append(out, *p)
		}
	}
	return out
}

// TeacherStats aggregates the dashboard numbers from bookings and payments.
func (s *Store) TeacherStats(teacherID string) domain.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.DashboardStats{}
	students := make(map[string]struct{})
	for _, b := range s.bookings {
		if b.TeacherID != teacherID {
			continue
		}
		stats.TotalBookings++
		students[b.StudentID] = struct{}{}
		switch b.Status {
		case domain.BookingStatusCompleted:
			stats.CompletedBookings++
		case domain.BookingStatusCancelled:
			stats.CancelledBookings++
		case domain.BookingStatusPending, domain.BookingStatusPaid:
			stats.UpcomingBookings++
		}
	}
	for _, p := range s.payments {
		if p.TeacherID == teacherID && p.Status == domain.PaymentStatusSucceeded {
			stats.TotalEarnings += p.Amount
		}
	}
	stats.UniqueStudents = len(students)
	return stats
}
