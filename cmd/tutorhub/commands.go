package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/spec-kit/tutorhub-client/internal/api"
	"github.com/spec-kit/tutorhub-client/internal/domain"
	"github.com/spec-kit/tutorhub-client/internal/session"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.manager.Login(result.Credentials, result.Role, nil); err != nil {
		return err
	}

	// the profile fetch needs the persisted token; a failure here is not a
	// login failure
	if profile, err := fetchProfile(ctx, a.client, result.Role); err == nil {
		_ = a.manager.UpdateProfile(profile)
	}
	fmt.Printf("logged in as %s\n", result.Role)
	return nil
}

// fetchProfile resolves the role-matched profile branch right after login.
// A profile fetch failure is not a login failure.
func fetchProfile(ctx context.Context, client *api.Client, role domain.Role) (*domain.Profile, error) {
	switch role {
	case domain.RoleStudent:
		p, err := client.MyStudentProfile(ctx)
		if err != nil {
			return nil, err
		}
		return domain.NewStudentProfile(*p), nil
	case domain.RoleTeacher:
		p, err := client.MyTeacherProfile(ctx)
		if err != nil {
			return nil, err
		}
		return domain.NewTeacherProfile(*p), nil
	default:
		return nil, nil
	}
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "student", "student or teacher")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.Register(ctx, api.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     *role,
	}); err != nil {
		return err
	}
	fmt.Println("registered; run `tutorhub login` to sign in")
	return nil
}

func cmdWhoami(_ context.Context, _ *app, sess *domain.Session, _ []string) error {
	name := sess.Profile.DisplayName()
	if name == "" {
		name = "(no profile)"
	}
	fmt.Printf("%s  role=%s\n", name, sess.Role)
	return nil
}

func cmdTeachers(ctx context.Context, a *app, _ []string) error {
	teachers, err := a.client.ListTeachers(ctx)
	if err != nil {
		return err
	}
	for _, t := range teachers {
		fmt.Printf("%s  %s  %s  %.2f/h  rating %.1f\n", t.ID, t.Name, t.Subject, t.HourlyRate, t.Rating)
	}
	return nil
}

func cmdTeacher(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("teacher", flag.ContinueOnError)
	id := fs.String("id", "", "teacher id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := a.client.GetTeacher(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s — %.2f/h, rating %.1f\n%s\n", t.Name, t.Subject, t.HourlyRate, t.Rating, t.Bio)
	return nil
}

func cmdAvailability(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("availability", flag.ContinueOnError)
	teacherID := fs.String("teacher", "", "teacher id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	slots, err := a.client.TeacherAvailability(ctx, *teacherID)
	if err != nil {
		return err
	}
	printSlots(slots)
	return nil
}

func cmdSlots(ctx context.Context, a *app, sess *domain.Session, _ []string) error {
	id, err := requireProfileID(sess)
	if err != nil {
		return err
	}
	slots, err := a.client.ListAvailability(ctx, id)
	if err != nil {
		return err
	}
	printSlots(slots)
	return nil
}

func cmdSlotAdd(ctx context.Context, a *app, sess *domain.Session, args []string) error {
	fs := flag.NewFlagSet("slot-add", flag.ContinueOnError)
	start := fs.String("start", "", "start time, RFC 3339")
	end := fs.String("end", "", "end time, RFC 3339")
	if err := fs.Parse(args); err != nil {
		return err
	}

	startsAt, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return util.NewValidationError("start must be RFC 3339")
	}
	endsAt, err := time.Parse(time.RFC3339, *end)
	if err != nil {
		return util.NewValidationError("end must be RFC 3339")
	}

	id, err := requireProfileID(sess)
	if err != nil {
		return err
	}
	slot, err := a.client.AddAvailability(ctx, id, api.AddSlotRequest{StartsAt: startsAt, EndsAt: endsAt})
	if err != nil {
		return err
	}
	fmt.Printf("published slot %s\n", slot.ID)
	return nil
}

func cmdBook(ctx context.Context, a *app, _ *domain.Session, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	teacherID := fs.String("teacher", "", "teacher id")
	slotID := fs.String("slot", "", "slot id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	booking, err := a.client.CreateBooking(ctx, api.CreateBookingRequest{TeacherID: *teacherID, SlotID: *slotID})
	if err != nil {
		return err
	}
	fmt.Printf("booked %s for %.2f, status %s\n", booking.ID, booking.Price, booking.Status)
	return nil
}

func cmdBookings(ctx context.Context, a *app, sess *domain.Session, args []string) error {
	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	studentID := fs.String("student", "", "student id (admin only)")
	teacherID := fs.String("teacher", "", "teacher id (admin only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var bookings []domain.Booking
	var err error
	switch {
	case sess.Role == domain.RoleTeacher || sess.Role == domain.RoleStudent:
		var id string
		if id, err = requireProfileID(sess); err != nil {
			return err
		}
		if sess.Role == domain.RoleTeacher {
			bookings, err = a.client.TeacherBookings(ctx, id)
		} else {
			bookings, err = a.client.StudentBookings(ctx, id)
		}
	case *studentID != "":
		bookings, err = a.client.StudentBookings(ctx, *studentID)
	case *teacherID != "":
		bookings, err = a.client.TeacherBookings(ctx, *teacherID)
	default:
		return util.NewValidationError("admin must pass -student or -teacher")
	}
	if err != nil {
		return err
	}
	for _, b := range bookings {
		fmt.Printf("%s  slot=%s  %s  %.2f\n", b.ID, b.SlotID, b.Status, b.Price)
	}
	return nil
}

func cmdCancel(ctx context.Context, a *app, _ *domain.Session, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	id := fs.String("id", "", "booking id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.client.CancelBooking(ctx, *id); err != nil {
		return err
	}
	fmt.Println("cancelled")
	return nil
}

func cmdCancelAll(ctx context.Context, a *app, sess *domain.Session, _ []string) error {
	id, err := requireProfileID(sess)
	if err != nil {
		return err
	}
	if err := a.client.CancelTeacherBookings(ctx, id); err != nil {
		return err
	}
	fmt.Println("open bookings cancelled")
	return nil
}

func cmdComplete(ctx context.Context, a *app, _ *domain.Session, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ContinueOnError)
	id := fs.String("id", "", "booking id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	booking, err := a.client.CompleteBooking(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("booking %s completed\n", booking.ID)
	return nil
}

func cmdPay(ctx context.Context, a *app, _ *domain.Session, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	bookingID := fs.String("booking", "", "booking id")
	settle := fs.String("settle", "", "simulate the return hook: success or cancel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cs, err := a.client.CreateCheckoutSession(ctx, *bookingID)
	if err != nil {
		return err
	}
	fmt.Printf("checkout: %s\n", cs.URL)

	switch *settle {
	case "":
		return nil
	case "success":
		payment, err := a.client.CheckoutSuccess(ctx, *bookingID)
		if err != nil {
			return err
		}
		fmt.Printf("paid %.2f, payment %s\n", payment.Amount, payment.ID)
		return nil
	case "cancel":
		if err := a.client.CheckoutCancel(ctx, *bookingID); err != nil {
			return err
		}
		fmt.Println("checkout cancelled, booking still pending")
		return nil
	default:
		return util.NewValidationError("settle must be success or cancel")
	}
}

func cmdPayments(ctx context.Context, a *app, sess *domain.Session, _ []string) error {
	id, err := requireProfileID(sess)
	if err != nil {
		return err
	}
	var payments []domain.Payment
	if sess.Role == domain.RoleTeacher {
		payments, err = a.client.TeacherStripePayments(ctx, id)
	} else {
		payments, err = a.client.StudentPayments(ctx, id)
	}
	if err != nil {
		return err
	}
	for _, p := range payments {
		fmt.Printf("%s  booking=%s  %.2f  %s\n", p.ID, p.BookingID, p.Amount, p.Status)
	}
	return nil
}

func cmdStats(ctx context.Context, a *app, sess *domain.Session, _ []string) error {
	id, err := requireProfileID(sess)
	if err != nil {
		return err
	}
	stats, err := a.client.TeacherDashboardStats(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("bookings: %d total, %d upcoming, %d completed, %d cancelled\n",
		stats.TotalBookings, stats.UpcomingBookings, stats.CompletedBookings, stats.CancelledBookings)
	fmt.Printf("earnings: %.2f from %d students\n", stats.TotalEarnings, stats.UniqueStudents)
	return nil
}

func cmdTheme(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("theme", flag.ContinueOnError)
	set := fs.String("set", "", "light or dark")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *set != "" {
		if *set != "light" && *set != "dark" {
			return util.NewValidationError("theme must be light or dark")
		}
		return session.WriteJSON(a.store, session.KeyTheme, *set)
	}

	theme := "light"
	session.ReadJSON(a.store, session.KeyTheme, &theme)
	fmt.Println(theme)
	return nil
}

// profileID returns the caller's own entity ID from whichever profile
// branch the session carries.
func profileID(sess *domain.Session) string {
	if sess == nil || sess.Profile == nil {
		return ""
	}
	if sess.Profile.Teacher != nil {
		return sess.Profile.Teacher.ID
	}
	if sess.Profile.Student != nil {
		return sess.Profile.Student.ID
	}
	return ""
}

// requireProfileID fails commands that need the caller's identity when the
// profile fetch at login did not land.
func requireProfileID(sess *domain.Session) (string, error) {
	id := profileID(sess)
	if id == "" {
		return "", util.NewValidationError("no profile on this session; log in again")
	}
	return id, nil
}

func printSlots(slots []domain.AvailabilitySlot) {
	for _, s := range slots {
		state := "open"
		if s.Booked {
			state = "booked"
		}
		fmt.Printf("%s  %s → %s  %s\n", s.ID,
			s.StartsAt.Format(time.RFC3339), s.EndsAt.Format(time.RFC3339), state)
	}
}
