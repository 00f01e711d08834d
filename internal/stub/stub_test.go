package stub

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/tutorhub-client/internal/api"
	"github.com/spec-kit/tutorhub-client/internal/config"
	"github.com/spec-kit/tutorhub-client/internal/domain"
	"github.com/spec-kit/tutorhub-client/internal/session"
	"github.com/spec-kit/tutorhub-client/internal/transport"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

func startStub(t *testing.T) string {
	t.Helper()
	cfg := config.StubConfig{
		JWTSecret:              "test-secret",
		AccessTokenTTLSeconds:  300,
		RefreshTokenTTLMinutes: 60,
	}
	app, _ := New(cfg, zap.NewNop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String() + "/api"
}

// wiredClient builds the full client stack the CLI uses: session store,
// refreshing transport, typed API client.
func wiredClient(t *testing.T, baseURL string) (*api.Client, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	rt := transport.New(transport.Options{
		Store:      store,
		RefreshURL: baseURL + "/auth/refresh-token",
	})
	httpc := &http.Client{Transport: rt, Timeout: 10 * time.Second}
	return api.New(baseURL, httpc, zap.NewNop()), store
}

func login(t *testing.T, client *api.Client, store session.Store, email, password string) *api.LoginResult {
	t.Helper()
	result, err := client.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if err := session.WriteJSON(store, session.KeyAccessToken, result.Credentials.AccessToken); err != nil {
		t.Fatalf("persist access token: %v", err)
	}
	if err := session.WriteJSON(store, session.KeyRefreshToken, result.Credentials.RefreshToken); err != nil {
		t.Fatalf("persist refresh token: %v", err)
	}
	return result
}

func TestBookingFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	baseURL := startStub(t)

	studentAPI, studentStore := wiredClient(t, baseURL)
	result := login(t, studentAPI, studentStore, "sam@tutorhub.dev", "studypass")
	if result.Role != domain.RoleStudent {
		t.Fatalf("seeded sam should be a student, got %s", result.Role)
	}
	if result.Credentials.RefreshToken == "" {
		t.Fatalf("login must deliver a refresh token")
	}

	student, err := studentAPI.MyStudentProfile(ctx)
	if err != nil {
		t.Fatalf("student profile: %v", err)
	}

	teachers, err := studentAPI.ListTeachers(ctx)
	if err != nil || len(teachers) == 0 {
		t.Fatalf("list teachers: %v (%d)", err, len(teachers))
	}
	tina := teachers[0]

	slots, err := studentAPI.TeacherAvailability(ctx, tina.ID)
	if err != nil || len(slots) == 0 {
		t.Fatalf("open slots: %v (%d)", err, len(slots))
	}

	booking, err := studentAPI.CreateBooking(ctx, api.CreateBookingRequest{TeacherID: tina.ID, SlotID: slots[0].ID})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.Status != domain.BookingStatusPending {
		t.Fatalf("new booking status = %s", booking.Status)
	}
	if booking.Price != tina.HourlyRate*slots[0].EndsAt.Sub(slots[0].StartsAt).Hours() {
		t.Fatalf("price = %f", booking.Price)
	}

	// the booked slot disappears from the public browse surface
	open, err := studentAPI.TeacherAvailability(ctx, tina.ID)
	if err != nil {
		t.Fatalf("open slots after booking: %v", err)
	}
	for _, s := range open {
		if s.ID == slots[0].ID {
			t.Fatalf("booked slot must not be browsable")
		}
	}

	// double-booking the same slot is a conflict
	if _, err := studentAPI.CreateBooking(ctx, api.CreateBookingRequest{TeacherID: tina.ID, SlotID: slots[0].ID}); err == nil {
		t.Fatalf("double booking must fail")
	}

	cs, err := studentAPI.CreateCheckoutSession(ctx, booking.ID)
	if err != nil || cs.URL == "" {
		t.Fatalf("checkout session: %v %+v", err, cs)
	}
	payment, err := studentAPI.CheckoutSuccess(ctx, booking.ID)
	if err != nil {
		t.Fatalf("checkout success: %v", err)
	}
	if payment.Status != domain.PaymentStatusSucceeded || payment.Amount != booking.Price {
		t.Fatalf("unexpected payment: %+v", payment)
	}

	payments, err := studentAPI.StudentPayments(ctx, student.ID)
	if err != nil || len(payments) != 1 {
		t.Fatalf("student payments: %v (%d)", err, len(payments))
	}

	// students are forbidden from the teacher dashboard
	if _, err := studentAPI.TeacherDashboardStats(ctx, tina.ID); !util.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	// teacher side: complete the paid booking and check the aggregates
	teacherAPI, teacherStore := wiredClient(t, baseURL)
	login(t, teacherAPI, teacherStore, "tina@tutorhub.dev", "teachpass")

	bookings, err := teacherAPI.TeacherBookings(ctx, tina.ID)
	if err != nil || len(bookings) != 1 {
		t.Fatalf("teacher bookings: %v (%d)", err, len(bookings))
	}
	if bookings[0].Status != domain.BookingStatusPaid {
		t.Fatalf("booking should be paid, got %s", bookings[0].Status)
	}

	completed, err := teacherAPI.CompleteBooking(ctx, booking.ID)
	if err != nil || completed.Status != domain.BookingStatusCompleted {
		t.Fatalf("complete booking: %v %+v", err, completed)
	}

	stats, err := teacherAPI.TeacherDashboardStats(ctx, tina.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalBookings != 1 || stats.CompletedBookings != 1 || stats.UniqueStudents != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalEarnings != booking.Price {
		t.Fatalf("earnings = %f, want %f", stats.TotalEarnings, booking.Price)
	}
}

func TestExpiredAccessTokenIsRefreshedAgainstStub(t *testing.T) {
	ctx := context.Background()
	baseURL := startStub(t)

	client, store := wiredClient(t, baseURL)
	login(t, client, store, "sam@tutorhub.dev", "studypass")

	// sabotage the persisted access token; the refresh grant stays valid,
	// so the next call must 401, silently refresh and succeed
	if err := session.WriteJSON(store, session.KeyAccessToken, "no-longer-a-token"); err != nil {
		t.Fatalf("sabotage: %v", err)
	}

	if _, err := client.MyStudentProfile(ctx); err != nil {
		t.Fatalf("request should recover via refresh: %v", err)
	}

	var refreshed string
	if !session.ReadJSON(store, session.KeyAccessToken, &refreshed) || refreshed == "no-longer-a-token" {
		t.Fatalf("refreshed token must be persisted")
	}
}

func TestUnknownRefreshTokenClearsSession(t *testing.T) {
	ctx := context.Background()
	baseURL := startStub(t)

	client, store := wiredClient(t, baseURL)
	login(t, client, store, "sam@tutorhub.dev", "studypass")

	_ = session.WriteJSON(store, session.KeyAccessToken, "broken")
	_ = session.WriteJSON(store, session.KeyRefreshToken, "never-issued")

	if _, err := client.MyStudentProfile(ctx); !util.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("session store must be cleared after failed refresh")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	baseURL := startStub(t)

	client, store := wiredClient(t, baseURL)
	if err := client.Register(ctx, api.RegisterRequest{
		Name:     "New Teacher",
		Email:    "new@tutorhub.dev",
		Password: "pw123456",
		Role:     "teacher",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	// duplicate email is rejected
	if err := client.Register(ctx, api.RegisterRequest{
		Name:     "Imposter",
		Email:    "new@tutorhub.dev",
		Password: "pw123456",
		Role:     "teacher",
	}); err == nil {
		t.Fatalf("duplicate email must fail")
	}

	result := login(t, client, store, "new@tutorhub.dev", "pw123456")
	if result.Role != domain.RoleTeacher {
		t.Fatalf("registered role = %s", result.Role)
	}

	profile, err := client.MyTeacherProfile(ctx)
	if err != nil || profile.Email != "new@tutorhub.dev" {
		t.Fatalf("teacher profile: %v %+v", err, profile)
	}

	// publish and list a slot through the owner surface
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	slot, err := client.AddAvailability(ctx, profile.ID, api.AddSlotRequest{StartsAt: start, EndsAt: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("add slot: %v", err)
	}
	slots, err := client.ListAvailability(ctx, profile.ID)
	if err != nil || len(slots) != 1 || slots[0].ID != slot.ID {
		t.Fatalf("list slots: %v (%d)", err, len(slots))
	}
}
