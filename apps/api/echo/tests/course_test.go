package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aeroprep/aeroprep/core/course"
	"github.com/aeroprep/aeroprep/core/user"
)

func Test_courseApi_courseLifecycle(t *testing.T) {
	app := setup(t)

	instructor := createUser(t, "Instructor", "teach", "teach@test.aero", "", []string{user.RoleInstructor}, true)
	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	instructorToken := getToken(t, instructor)
	studentToken := getToken(t, student)

	boolPtr := func(b bool) *bool { return &b }

	// students cannot author courses
	req, rec := newAuthRequest(http.MethodPost, "/v1/courses", studentToken,
		marchallObj(t, course.NewCourse{Title: "A320 Systems", Aircraft: "A320_FAMILY"}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)}, rec)

	// staff create, free course
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", instructorToken,
		marchallObj(t, course.NewCourse{Title: "A320 Systems", Aircraft: "A320_FAMILY", IsPremium: boolPtr(false)}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var free course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &free); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if free.Slug != "a320-systems" {
		t.Errorf("failed! Slug = %s; want a320-systems", free.Slug)
	}
	if free.IsPublished || free.IsPremium {
		t.Errorf("failed! IsPublished = %v, IsPremium = %v; want false, false", free.IsPublished, free.IsPremium)
	}

	// duplicate title
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", instructorToken,
		marchallObj(t, course.NewCourse{Title: "A320 Systems", Aircraft: "A320_FAMILY"}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"title": course.ErrSlugExists.Error()}),
	}, rec)

	// unpublished courses are hidden from students
	req, rec = newAuthRequest(http.MethodGet, "/v1/courses", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, []course.Course{})}, rec)

	// and cannot be enrolled in
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+free.ID+"/enroll", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: marchallObj(t, httpErr{Error: course.ErrNotPublished.Error()}),
	}, rec)

	// publish
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+free.ID+"/publish", instructorToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &free); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if !free.IsPublished {
		t.Error("failed! published course has IsPublished = false")
	}

	// now students see it
	req, rec = newAuthRequest(http.MethodGet, "/v1/courses", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, free)}, rec)

	// and can enroll
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+free.ID+"/enroll", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var enr course.Enrollment
	if err := json.Unmarshal(rec.Body.Bytes(), &enr); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if enr.UserID != student.ID || enr.CourseID != free.ID {
		t.Errorf("failed! enrollment = %+v", enr)
	}

	// premium course requires an active subscription
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", instructorToken,
		marchallObj(t, course.NewCourse{Title: "B737 Type Rating", Aircraft: "B737_FAMILY"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var premium course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &premium); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if !premium.IsPremium {
		t.Error("failed! new course does not default to premium")
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+premium.ID+"/publish", instructorToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+premium.ID+"/enroll", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusPaymentRequired,
		wantData: marchallObj(t, httpErr{Error: course.ErrSubscriptionRequired.Error()}),
	}, rec)
}

func Test_courseApi_lessonFlow(t *testing.T) {
	app := setup(t)

	instructor := createUser(t, "Instructor", "teach", "teach@test.aero", "", []string{user.RoleInstructor}, true)
	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	instructorToken := getToken(t, instructor)
	studentToken := getToken(t, student)

	boolPtr := func(b bool) *bool { return &b }

	// course with two lessons
	req, rec := newAuthRequest(http.MethodPost, "/v1/courses", instructorToken,
		marchallObj(t, course.NewCourse{Title: "A320 Electrics", Aircraft: "A320_FAMILY", IsPremium: boolPtr(false)}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var c course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}

	// students cannot author lessons
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+c.ID+"/lessons", studentToken,
		marchallObj(t, course.NewLesson{Title: "AC Generation"}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)}, rec)

	var lessons []course.Lesson
	for _, title := range []string{"AC Generation", "DC Generation"} {
		req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+c.ID+"/lessons", instructorToken,
			marchallObj(t, course.NewLesson{Title: title, Body: "..."}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add lesson failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var l course.Lesson
		if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		lessons = append(lessons, l)
	}
	if lessons[0].Position != 0 || lessons[1].Position != 1 {
		t.Errorf("failed! positions = %d, %d; want 0, 1", lessons[0].Position, lessons[1].Position)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/courses/"+c.ID+"/lessons", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, lessons)}, rec)

	// completion requires enrollment
	req, rec = newAuthRequest(http.MethodPost, "/v1/lessons/"+lessons[0].ID+"/complete", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+c.ID+"/publish", instructorToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses/"+c.ID+"/enroll", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/lessons/"+lessons[0].ID+"/complete", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/courses/"+c.ID+"/progress", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, course.CourseProgress{CourseID: c.ID, Completed: 1, Total: 2, Percent: 50}),
	}, rec)

	// completing the same lesson twice is a no-op
	req, rec = newAuthRequest(http.MethodPost, "/v1/lessons/"+lessons[0].ID+"/complete", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/courses/"+c.ID+"/progress", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, course.CourseProgress{CourseID: c.ID, Completed: 1, Total: 2, Percent: 50}),
	}, rec)
}
