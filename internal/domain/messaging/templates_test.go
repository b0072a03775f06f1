package messaging

import (
	"errors"
	"strings"
	"testing"
)

func TestRender_SubstitutesParams(t *testing.T) {
	body, err := Render(TypeHeatAck, map[string]string{
		"cow_id":           "C-12",
		"inseminator_name": "Abebe",
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(body, "C-12") || !strings.Contains(body, "Abebe") {
		t.Fatalf("expected params in body, got %q", body)
	}
	if strings.ContainsAny(body, "{}") {
		t.Fatalf("unsubstituted placeholder left in body: %q", body)
	}
}

func TestRender_MissingParamRendersDash(t *testing.T) {
	body, err := Render(TypeBirthAlert, map[string]string{"cow_id": "C-1"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.ContainsAny(body, "{}") {
		t.Fatalf("expected placeholders replaced, got %q", body)
	}
	if !strings.Contains(body, "Calf sex: -") {
		t.Fatalf("expected dash for missing calf_sex, got %q", body)
	}
}

func TestRender_UnknownType(t *testing.T) {
	_, err := Render(MessageType("nope"), nil)
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestRender_EveryTypeHasTemplate(t *testing.T) {
	all := []MessageType{
		TypeInseminationAlert, TypeHeatAck, TypeInseminationRecorded,
		TypePregnancyConfirmation, TypeBirthAlert, TypeHealthAlert,
		TypeMedicalReportAck, TypeAssessmentSummary, TypeDoctorConfirmation,
		TypeHeatOverdueReminder, TypeCalvingOverdueReminder,
		TypeCalvingTwoMonthAlert, TypeCalvingOneMonthAlert, TypeCalvingDueAlert,
		TypeStaffAssignment, TypeStaffUnassignment, TypeDoctorChangeNotice,
	}
	for _, mt := range all {
		if _, err := Render(mt, nil); err != nil {
			t.Fatalf("no template for %s: %v", mt, err)
		}
	}
}
