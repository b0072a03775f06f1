package messaging

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTemplate = errors.New("unknown message template")

// templates is the single lookup table for every outbound text. Placeholders
// use {name} and are substituted from the intent params; a placeholder with
// no matching param renders as "-" so a missing value never leaks braces to
// a recipient.
var templates = map[MessageType]string{
	TypeInseminationAlert: "Insemination alert\n" +
		"Farm {farm_id} - {owner_name}\n" +
		"Address: {address}\n" +
		"Phone: {farm_phone}\n" +
		"Cow: {cow_id}\n" +
		"Heat signs: {heat_signs}\n" +
		"Please inseminate between 10:00 and 13:00.",

	TypeHeatAck: "Notice: your cow {cow_id} is showing heat signs. " +
		"Your inseminator {inseminator_name} has been notified and will visit your farm shortly.",

	TypeInseminationRecorded: "Insemination recorded\n" +
		"Cow: {cow_id}\n" +
		"Bull: {bull_id}\n" +
		"Attempt number: {attempt_count}\n" +
		"Date: {insemination_date}",

	TypePregnancyConfirmation: "Pregnancy confirmed!\n" +
		"Cow: {cow_id}\n" +
		"Confirmation date: {pregnancy_date}\n" +
		"Expected calving date: {expected_calving_date}\n" +
		"Lactation number: {lactation_number}",

	TypeBirthAlert: "Birth recorded!\n" +
		"Cow: {cow_id}\n" +
		"Calving date: {calving_date}\n" +
		"Calf sex: {calf_sex}\n" +
		"Lactation number: {lactation_number}",

	TypeHealthAlert: "New animal health report\n" +
		"Cow: {cow_id}\n" +
		"Farm: {farm_id} - {owner_name}\n" +
		"Reported issue: {sickness}\n" +
		"Please follow up on this report.",

	TypeMedicalReportAck: "Medical report received\n" +
		"Cow: {cow_id}\n" +
		"Issue reported: {sickness}\n" +
		"Your report was forwarded to Dr. {doctor_name}. " +
		"You will be notified after the assessment.",

	TypeAssessmentSummary: "Medical assessment completed\n" +
		"Cow: {cow_id}\n" +
		"Doctor: Dr. {doctor_name}\n" +
		"Condition: {health_status}\n" +
		"Notes: {notes}",

	TypeDoctorConfirmation: "Assessment recorded\n" +
		"Farm: {farm_id} - {owner_name}\n" +
		"Cow: {cow_id}\n" +
		"Condition: {health_status}\n" +
		"The farmer has been notified of the result.",

	TypeHeatOverdueReminder: "Heat monitoring reminder\n" +
		"Farm: {farm_id}\n" +
		"Cow: {cow_id}\n" +
		"{days} days without observed heat signs.\n" +
		"Please check the cow for heat signs.",

	TypeCalvingTwoMonthAlert: "Calving reminder - 2 months left\n" +
		"Cow: {cow_id}\n" +
		"Expected calving date: {expected_calving_date}\n" +
		"Lactation number: {lactation_number}\n" +
		"Please begin preparing the cow for calving.",

	TypeCalvingOneMonthAlert: "Calving reminder - 1 month left\n" +
		"Cow: {cow_id}\n" +
		"Expected calving date: {expected_calving_date}\n" +
		"Lactation number: {lactation_number}\n" +
		"Please watch the cow closely and prepare for calving.",

	TypeCalvingDueAlert: "Calving date has arrived!\n" +
		"Cow: {cow_id}\n" +
		"Expected calving date: {expected_calving_date}\n" +
		"Lactation number: {lactation_number}\n" +
		"Please watch the cow carefully and provide assistance as needed.",

	TypeCalvingOverdueReminder: "Calving overdue\n" +
		"Cow: {cow_id}\n" +
		"Expected calving date: {expected_calving_date}\n" +
		"{days} days past the expected date.\n" +
		"Please watch the cow closely and arrange assistance.",

	TypeStaffAssignment: "Notice: you have been assigned to a new farm:\n" +
		"Farm ID: {farm_id}\n" +
		"Owner: {owner_name}\n" +
		"Address: {address}\n" +
		"Phone: {farm_phone}",

	TypeStaffUnassignment: "Notice: you have been unassigned from farm {farm_id} ({owner_name}).",

	TypeDoctorChangeNotice: "Notice: your farm's doctor has been changed to Dr. {doctor_name}. " +
		"Contact number: {doctor_phone}",
}

// Render produces the outbound text for a message type. Unknown types are a
// programming error surfaced as ErrUnknownTemplate.
func Render(t MessageType, params map[string]string) (string, error) {
	tpl, ok := templates[t]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, t)
	}

	var b strings.Builder
	rest := tpl
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		key := rest[start+1 : start+end]
		val, ok := params[key]
		if !ok || strings.TrimSpace(val) == "" {
			val = "-"
		}
		b.WriteString(val)
		rest = rest[start+end+1:]
	}
	return b.String(), nil
}
