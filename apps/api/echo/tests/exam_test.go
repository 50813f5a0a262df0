package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aeroprep/aeroprep/core/exam"
	"github.com/aeroprep/aeroprep/core/user"
)

func Test_examApi_attemptFlow(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	other := createUser(t, "Rival", "rival1", "rival@test.aero", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)
	otherToken := getToken(t, other)

	intPtr := func(i int) *int { return &i }

	// start
	req, rec := newAuthRequest(http.MethodPost, "/v1/exams/attempts", studentToken,
		marchallObj(t, exam.NewAttempt{Category: "all", QuestionCount: 5}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var att exam.Attempt
	if err := json.Unmarshal(rec.Body.Bytes(), &att); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if att.UserID != student.ID {
		t.Errorf("failed! UserID = %s; want %s", att.UserID, student.ID)
	}
	if len(att.QuestionIDs) != 5 {
		t.Fatalf("failed! len(QuestionIDs) = %d; want 5", len(att.QuestionIDs))
	}
	if att.IsFinished() {
		t.Error("failed! new attempt is already finished")
	}

	// attempts are private to their owner
	req, rec = newAuthRequest(http.MethodGet, "/v1/exams/attempts/"+att.ID, otherToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
	}

	// answer the first two questions
	for _, qID := range att.QuestionIDs[:2] {
		req, rec = newAuthRequest(http.MethodPut, "/v1/exams/attempts/"+att.ID+"/answers", studentToken,
			marchallObj(t, exam.SubmitAnswer{QuestionID: qID, Selected: intPtr(0)}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("answer failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var ans exam.Answer
		if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if ans.QuestionID != qID {
			t.Errorf("failed! QuestionID = %s; want %s", ans.QuestionID, qID)
		}
	}

	// answering a question outside the snapshot is rejected
	req, rec = newAuthRequest(http.MethodPut, "/v1/exams/attempts/"+att.ID+"/answers", studentToken,
		marchallObj(t, exam.SubmitAnswer{QuestionID: "lol", Selected: intPtr(0)}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
	}
	wantBody := marchallObj(t, map[string]string{"question_id": "question is not part of this attempt"})
	if ok, err := jsonBytesEqual(t, rec.Body.Bytes(), wantBody); err != nil || !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.String(), wantBody)
	}

	// finish
	req, rec = newAuthRequest(http.MethodPost, "/v1/exams/attempts/"+att.ID+"/finish", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var res exam.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if !res.Attempt.IsFinished() {
		t.Error("failed! finished attempt has no FinishedAt")
	}
	if !res.Attempt.Score.Valid {
		t.Error("failed! finished attempt has no Score")
	}
	if len(res.Breakdown) == 0 {
		t.Error("failed! finished attempt has no category breakdown")
	}

	// answering after finish is rejected
	req, rec = newAuthRequest(http.MethodPut, "/v1/exams/attempts/"+att.ID+"/answers", studentToken,
		marchallObj(t, exam.SubmitAnswer{QuestionID: att.QuestionIDs[0], Selected: intPtr(1)}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusConflict)
	}

	// progress
	req, rec = newAuthRequest(http.MethodGet, "/v1/exams/progress", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var prog exam.Progress
	if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if prog.TotalAttempts != 1 {
		t.Errorf("failed! TotalAttempts = %d; want 1", prog.TotalAttempts)
	}
	if prog.FinishedAttempts != 1 {
		t.Errorf("failed! FinishedAttempts = %d; want 1", prog.FinishedAttempts)
	}
	if prog.QuestionsAnswered != 2 {
		t.Errorf("failed! QuestionsAnswered = %d; want 2", prog.QuestionsAnswered)
	}
	if prog.StreakDays != 1 {
		t.Errorf("failed! StreakDays = %d; want 1", prog.StreakDays)
	}

	// the other user's progress is untouched
	req, rec = newAuthRequest(http.MethodGet, "/v1/exams/progress", otherToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if prog.TotalAttempts != 0 {
		t.Errorf("failed! TotalAttempts = %d; want 0", prog.TotalAttempts)
	}
}

func Test_examApi_start(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "question_count required", token: studentToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, exam.NewAttempt{Category: "all"}),
			wantData: marchallObj(t, map[string]string{"question_count": "this field is required"}),
		},
		{
			name: "unknown aircraft", token: studentToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, exam.NewAttempt{Aircraft: "CONCORDE", QuestionCount: 5}),
			wantData: marchallObj(t, map[string]string{"aircraft": "invalid aircraft tag"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/exams/attempts"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
