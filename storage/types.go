package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a requested row does not exist.
	ErrNotFound = errors.New("storage: record not found")
)

const (
	// RoleAdmin manages user accounts.
	RoleAdmin = "admin"
	// RoleCoordinator manages camp logistics.
	RoleCoordinator = "coordinator"
	// RoleLeader supervises camps and campers.
	RoleLeader = "leader"
)

const (
	// CampTypeDayCamp is a single-day camp.
	CampTypeDayCamp = "day_camp"
	// CampTypeOvernight is a camp with at least one overnight stay.
	CampTypeOvernight = "overnight"
	// CampTypeExpedition is a multi-day travelling camp.
	CampTypeExpedition = "expedition"
)

const (
	attendancePresent = "present"
	attendanceAbsent  = "absent"
)

const (
	// NotificationNotEnoughFood flags a camp whose food stock fell below the
	// approved daily level.
	NotificationNotEnoughFood = "not_enough_food"
	// NotificationLowPaymentRate flags a camp whose leader daily rate is
	// below the recommended threshold.
	NotificationLowPaymentRate = "low_daily_payment_rate"
)

// User is the SQLite representation of an account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    string
}

// RoleTitle returns the user-facing title for the account role.
func (u User) RoleTitle() string {
	return RoleTitle(u.Role)
}

// RoleTitle maps a stored role value to its user-facing title.
func RoleTitle(role string) string {
	switch role {
	case RoleAdmin:
		return "Admin"
	case RoleCoordinator:
		return "Logistics Coordinator"
	case RoleLeader:
		return "Scout Leader"
	default:
		return role
	}
}

// Message is the SQLite representation of one direct message.
type Message struct {
	ID             int64
	SenderID       int64
	RecipientID    int64
	Body           string
	CreatedAt      string
	IsRead         bool
	SenderUsername string
}

// Conversation is the derived chat-list view for one partner. It is
// recomputed on every query and never persisted.
type Conversation struct {
	PartnerID       int64
	PartnerUsername string
	PartnerRole     string
	LastSenderID    int64
	LastMessage     string
	LastTimestamp   string
	UnreadCount     int
}

// Camp is the SQLite representation of a scout camp.
type Camp struct {
	ID                     int64
	CoordinatorID          int64
	LeaderID               *int64
	Name                   string
	Location               string
	Latitude               *float64
	Longitude              *float64
	StartDate              string
	EndDate                string
	Type                   string
	ApprovedDailyFoodStock int
	LeaderDailyPaymentRate float64
	Capacity               int
	DailyFoodPerCamper     int
	CreatedAt              string
}

// Camper is the SQLite representation of a registered camper.
type Camper struct {
	ID          int64
	CampID      int64
	Name        string
	DateOfBirth string
	CreatedAt   string
}

// Activity is one logged camp activity, possibly with incidents.
type Activity struct {
	ID            int64
	CampID        int64
	ActivityDate  string
	ActivityName  string
	IncidentCount int
	Notes         string
}

// AttendanceRecord marks one camper present or absent on one camp day.
type AttendanceRecord struct {
	ID       int64
	CampID   int64
	CamperID int64
	Date     string
	Status   string
}

// FoodStockEntry is one row of a camp's food stock ledger.
type FoodStockEntry struct {
	ID             int64
	CampID         int64
	Date           string
	StockAvailable int
	ChangeReason   string
	ChangeAmount   int
}

// Notification is a logistics alert addressed to a coordinator.
type Notification struct {
	ID            int64
	CampID        int64
	CoordinatorID int64
	Type          string
	Message       string
	IsRead        bool
	CreatedAt     string
}

// LeaderStats aggregates lifetime figures for one leader's camps.
type LeaderStats struct {
	TotalCamps           int
	TotalMoneyEarned     float64
	TotalCampersLed      int
	TotalIncidents       int
	TotalFoodUsed        int
	AvgParticipationRate float64
}

// CampTrend is one per-camp row of the leader trends dashboard.
type CampTrend struct {
	CampID            int64
	CampName          string
	StartDate         string
	MoneyEarned       float64
	TotalCampers      int
	IncidentCount     int
	FoodUsed          int
	ParticipationRate float64
}

// AttendanceDay counts one camp's roll call for a single day.
type AttendanceDay struct {
	Date    string
	Present int
	Absent  int
}

// CampAttendanceToday is one ongoing camp's roll call for today, on the
// all-camps visualisation summary.
type CampAttendanceToday struct {
	CampID   int64
	CampName string
	Present  int
	Absent   int
}

// CampStockLevel is one ongoing camp's most recent food stock reading.
type CampStockLevel struct {
	CampID         int64
	CampName       string
	StockAvailable int
}

// ActivityEngagement counts participants for one activity.
type ActivityEngagement struct {
	Activity     string
	Participants int
}

type scanner interface {
	Scan(dest ...any) error
}

func validateRole(role string) error {
	switch role {
	case RoleAdmin, RoleCoordinator, RoleLeader:
		return nil
	default:
		return fmt.Errorf("invalid role %q", role)
	}
}

func validateCampType(campType string) error {
	switch campType {
	case CampTypeDayCamp, CampTypeOvernight, CampTypeExpedition:
		return nil
	default:
		return fmt.Errorf("invalid camp type %q", campType)
	}
}

func validateAttendanceStatus(status string) error {
	switch status {
	case attendancePresent, attendanceAbsent:
		return nil
	default:
		return fmt.Errorf("invalid attendance status %q", status)
	}
}

func nullInt64(ptr *int64) sql.NullInt64 {
	if ptr == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *ptr, Valid: true}
}

func nullFloat64(ptr *float64) sql.NullFloat64 {
	if ptr == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *ptr, Valid: true}
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func float64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}
