package castles

import (
	"context"
	"net/http"
	"testing"

	"castlehire/pkg/client"
	"castlehire/pkg/model"
	"castlehire/test/integration/testutil"
)

type castleListEnvelope struct {
	Data       []model.Castle `json:"data"`
	TotalCount int64          `json:"total_count"`
}

func setup(t *testing.T) (*testutil.MongoHelper, *client.CastleClient) {
	t.Helper()
	testutil.RequireIntegration(t)

	env := testutil.NewTestEnv()
	mongo := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })

	api := client.NewCastleClient(env.ServerURL)
	if env.AdminToken != "" {
		api.WithAdminToken(env.AdminToken)
	}
	if err := api.WaitForHealthy(testutil.DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("castles service not healthy: %v", err)
	}
	return mongo, api
}

func TestListCastlesShowsOnlyActive(t *testing.T) {
	mongo, api := setup(t)

	mongo.InsertCastle(t, testutil.NewCastleBuilder().Build())
	mongo.InsertCastle(t, testutil.NewCastleBuilder().
		WithName("Retired Fortress").
		WithSlug("retired-fortress").
		Inactive().
		Build())

	resp, err := api.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var list castleListEnvelope
	if err := resp.DecodeJSON(&list); err != nil {
		t.Fatalf("failed to decode castle list: %v", err)
	}
	if list.TotalCount != 1 {
		t.Errorf("total_count = %d, want 1", list.TotalCount)
	}
	for _, castle := range list.Data {
		if !castle.Active {
			t.Errorf("inactive castle %q leaked into the public list", castle.Name)
		}
	}
}

func TestGetCastleBySlug(t *testing.T) {
	mongo, api := setup(t)
	ctx := context.Background()

	mongo.InsertCastle(t, testutil.NewCastleBuilder().Build())

	resp, err := api.GetBySlug(ctx, "jungle-adventure")
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	castle, err := api.DecodeCastle(resp)
	if err != nil {
		t.Fatalf("decode castle: %v", err)
	}
	if castle.Name != "Jungle Adventure" {
		t.Errorf("name = %q, want Jungle Adventure", castle.Name)
	}

	missing, err := api.GetBySlug(ctx, "no-such-castle")
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	testutil.AssertStatusCode(t, missing, http.StatusNotFound)
}

func TestAdminCastleEndpointsRequireAuth(t *testing.T) {
	testutil.RequireIntegration(t)

	env := testutil.NewTestEnv()
	mongo := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })

	// Deliberately no admin token.
	api := client.NewCastleClient(env.ServerURL)
	if err := api.WaitForHealthy(testutil.DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("castles service not healthy: %v", err)
	}

	resp, err := api.Create(context.Background(), testutil.NewCastleBuilder().Build())
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}
