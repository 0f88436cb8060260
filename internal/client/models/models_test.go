package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPage_ValidateChecksEveryResult(t *testing.T) {
	var p Page[Encounter]
	require.NoError(t, json.Unmarshal([]byte(`{
		"count": 25,
		"next": "http://localhost:8000/api/encounters/?page=2",
		"previous": null,
		"results": [{"id": 1, "patient": 3, "status": "pending"}, {"id": 2, "patient": 3, "status": "done"}]
	}`), &p))

	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.ErrorContains(t, err, `unknown status "done"`)

	p.Results[1].Status = EncounterCompleted
	require.NoError(t, p.Validate())
	require.NotNil(t, p.Next)
	require.Nil(t, p.Previous)
}

func TestPage_CountSmallerThanResults(t *testing.T) {
	p := Page[Patient]{Count: 0, Results: []Patient{{ID: 1}}}
	require.ErrorIs(t, p.Validate(), ErrInvalidPayload)
}

func TestLoginResponse_Validate(t *testing.T) {
	ok := LoginResponse{Access: "A1", Refresh: "R1", User: User{ID: 1, Username: "admin"}}
	require.NoError(t, ok.Validate())

	noTokens := ok
	noTokens.Refresh = ""
	require.ErrorIs(t, noTokens.Validate(), ErrInvalidPayload)

	noUser := ok
	noUser.User = User{}
	require.ErrorIs(t, noUser.Validate(), ErrInvalidPayload)
}

func TestTemplate_ValidateItems(t *testing.T) {
	tpl := ChecklistTemplate{ID: 4, Name: "Intake", Items: []ChecklistItem{{ID: 1}, {ID: 0}}}
	require.ErrorContains(t, tpl.Validate(), "checklist item id must be positive")

	tpl.Items = tpl.Items[:1]
	require.NoError(t, tpl.Validate())
}

func TestPatient_Validate(t *testing.T) {
	require.NoError(t, Patient{ID: 1, Gender: GenderFemale}.Validate())
	require.NoError(t, Patient{ID: 1}.Validate())
	require.ErrorIs(t, Patient{ID: 1, Gender: "x"}.Validate(), ErrInvalidPayload)
	require.ErrorIs(t, Patient{}.Validate(), ErrInvalidPayload)
}

func TestEnums(t *testing.T) {
	require.True(t, DocumentDOCX.Valid())
	require.False(t, DocumentFormat("txt").Valid())
	require.True(t, ExportXLSX.Valid())
	require.False(t, ExportFormat("json").Valid())
	require.True(t, GroupByWeek.Valid())
	require.False(t, GroupBy("year").Valid())
}

func TestPatchOmitsNilFields(t *testing.T) {
	phone := "555-0100"
	b, err := json.Marshal(PatientPatch{Phone: &phone})
	require.NoError(t, err)
	require.JSONEq(t, `{"phone":"555-0100"}`, string(b))
}
