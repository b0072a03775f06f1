package messaging

// Role identifies who a notification is addressed to. Recipient phone
// numbers are resolved per farm from the role.
type Role string

const (
	RoleFarmer      Role = "farmer"
	RoleInseminator Role = "inseminator"
	RoleDoctor      Role = "doctor"
)

type MessageType string

const (
	// Event-triggered alerts.
	TypeInseminationAlert     MessageType = "insemination_alert"     // to inseminator when heat signs are reported
	TypeHeatAck               MessageType = "heat_ack"               // to farmer: inseminator has been notified
	TypeInseminationRecorded  MessageType = "insemination_recorded"  // to farmer after an insemination
	TypePregnancyConfirmation MessageType = "pregnancy_confirmation" // to farmer
	TypeBirthAlert            MessageType = "birth_alert"            // to farmer
	TypeHealthAlert           MessageType = "health_alert"           // to doctor: farmer reported a sick cow
	TypeMedicalReportAck      MessageType = "medical_report_ack"     // to farmer: report forwarded to the doctor
	TypeAssessmentSummary     MessageType = "assessment_summary"     // to farmer after a doctor assessment
	TypeDoctorConfirmation    MessageType = "doctor_confirmation"    // to doctor: assessment recorded

	// Sweep reminders. Distinct types so the per-day idempotence check can
	// tell them apart from event-triggered alerts.
	TypeHeatOverdueReminder    MessageType = "heat_overdue_reminder"
	TypeCalvingOverdueReminder MessageType = "calving_overdue_reminder"

	// Advance calving reminders, one per milestone on the way to the due
	// date. Distinct types so each milestone dedupes independently.
	TypeCalvingTwoMonthAlert MessageType = "calving_2_months_alert"
	TypeCalvingOneMonthAlert MessageType = "calving_1_month_alert"
	TypeCalvingDueAlert      MessageType = "calving_due_alert"

	// Staff assignment notices.
	TypeStaffAssignment    MessageType = "staff_assignment"
	TypeStaffUnassignment  MessageType = "staff_unassignment"
	TypeDoctorChangeNotice MessageType = "doctor_change_notice"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)
