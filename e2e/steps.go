package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the service is running$`, tc.serviceIsRunning)

	// Auth steps
	ctx.Step(`^I sign in with email "([^"]*)" and password "([^"]*)"$`, tc.signIn)
	ctx.Step(`^I sign up with email "([^"]*)", password "([^"]*)" and name "([^"]*)"$`, tc.signUp)
	ctx.Step(`^I save the access token$`, tc.saveAccessToken)

	// Request steps
	ctx.Step(`^I GET "([^"]*)"$`, tc.get)
	ctx.Step(`^I GET "([^"]*)" without authorization$`, tc.getWithoutAuth)
	ctx.Step(`^I GET "([^"]*)" with invalid token "([^"]*)"$`, tc.getWithInvalidToken)
	ctx.Step(`^I POST to "([^"]*)" with empty body$`, tc.postWithEmptyBody)
	ctx.Step(`^I update my profile name to "([^"]*)"$`, tc.updateProfileName)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^the response header "([^"]*)" should equal "([^"]*)"$`, tc.responseHeaderShouldEqual)
	ctx.Step(`^the artisan list should contain "([^"]*)"$`, tc.artisanListShouldContain)
	ctx.Step(`^the artisan list should not contain "([^"]*)"$`, tc.artisanListShouldNotContain)
	ctx.Step(`^the profile name should equal "([^"]*)"$`, tc.profileNameShouldEqual)
}

func (tc *TestContext) serviceIsRunning(ctx context.Context) error {
	return tc.GET("/health", nil)
}

func (tc *TestContext) signIn(ctx context.Context, email, password string) error {
	return tc.POST("/api/v1/auth/signin", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}

func (tc *TestContext) signUp(ctx context.Context, email, password, name string) error {
	return tc.POST("/api/v1/auth/signup", map[string]interface{}{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

func (tc *TestContext) saveAccessToken(ctx context.Context) error {
	token, err := tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	tc.AccessToken = token.(string)
	return nil
}

func (tc *TestContext) get(ctx context.Context, path string) error {
	return tc.GET(path, nil)
}

func (tc *TestContext) getWithoutAuth(ctx context.Context, path string) error {
	tc.AccessToken = ""
	return tc.GET(path, nil)
}

func (tc *TestContext) getWithInvalidToken(ctx context.Context, path, token string) error {
	tc.AccessToken = ""
	return tc.GET(path, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func (tc *TestContext) postWithEmptyBody(ctx context.Context, path string) error {
	return tc.POST(path, map[string]interface{}{})
}

func (tc *TestContext) updateProfileName(ctx context.Context, name string) error {
	return tc.PUT("/api/v1/me/profile", map[string]interface{}{
		"name": name,
	})
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s",
			expectedStatus, tc.LastResponse.StatusCode, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseShouldContain(ctx context.Context, field string) error {
	if !tc.ResponseContains(field) {
		return fmt.Errorf("response does not contain %q\nResponse: %s", field, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	actualValue, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}

	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}

func (tc *TestContext) responseHeaderShouldEqual(ctx context.Context, header, expectedValue string) error {
	actual := tc.LastResponse.Header.Get(header)
	if actual != expectedValue {
		return fmt.Errorf("header %s: expected %q but got %q", header, expectedValue, actual)
	}
	return nil
}

func (tc *TestContext) artisanList() ([]map[string]interface{}, error) {
	var body struct {
		Artisans []map[string]interface{} `json:"artisans"`
	}
	if err := json.Unmarshal(tc.LastResponseBody, &body); err != nil {
		return nil, fmt.Errorf("failed to parse artisan list: %w", err)
	}
	return body.Artisans, nil
}

func (tc *TestContext) artisanListShouldContain(ctx context.Context, familyName string) error {
	artisans, err := tc.artisanList()
	if err != nil {
		return err
	}
	for _, a := range artisans {
		if fmt.Sprint(a["nom"]) == familyName {
			return nil
		}
	}
	return fmt.Errorf("artisan %q not in list\nResponse: %s", familyName, string(tc.LastResponseBody))
}

func (tc *TestContext) artisanListShouldNotContain(ctx context.Context, familyName string) error {
	err := tc.artisanListShouldContain(ctx, familyName)
	if err == nil {
		return fmt.Errorf("artisan %q unexpectedly in list", familyName)
	}
	if !strings.Contains(err.Error(), "not in list") {
		return err
	}
	return nil
}

func (tc *TestContext) profileNameShouldEqual(ctx context.Context, name string) error {
	var body struct {
		Profile map[string]interface{} `json:"profile"`
	}
	if err := json.Unmarshal(tc.LastResponseBody, &body); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}
	if fmt.Sprint(body.Profile["name"]) != name {
		return fmt.Errorf("profile name: expected %q but got %v", name, body.Profile["name"])
	}
	return nil
}
