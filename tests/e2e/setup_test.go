package e2e

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	database "cloud.google.com/go/spanner/admin/database/apiv1"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	databasepb "cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instancepb "cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/batch_delete_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/murkotick/catalog-service/internal/media"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
	committer "github.com/murkotick/catalog-service/internal/pkg/committer"
)

var (
	spClient *spanner.Client
	clk      *clock.FakeClock
	store    *repo.SpannerStore
	mediaMem *media.Memory

	createUC *create_product.Interactor
	updateUC *update_product.Interactor
	deleteUC *delete_product.Interactor
	batchUC  *batch_delete_products.Interactor

	readModel *queries.SpannerReadModel

	dbName string
)

func TestMain(m *testing.M) {
	// Without an emulator every test skips itself.
	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		os.Exit(m.Run())
	}

	now := time.Now().UTC().Truncate(time.Second)
	clk = clock.NewFake(now)

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	projectID := env("SPANNER_PROJECT_ID", "test-project")
	instanceID := env("SPANNER_INSTANCE_ID", "emulator-instance")
	// One database per run keeps ids and SKUs from colliding.
	databaseID := fmt.Sprintf("e2e_%s", strings.ReplaceAll(uuid.New().String(), "-", ""))[:30]

	parent := fmt.Sprintf("projects/%s", projectID)
	instName := fmt.Sprintf("%s/instances/%s", parent, instanceID)
	dbName = fmt.Sprintf("%s/databases/%s", instName, databaseID)

	instAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		panic(fmt.Sprintf("instance admin client: %v", err))
	}
	defer instAdmin.Close()

	dbAdmin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		panic(fmt.Sprintf("database admin client: %v", err))
	}
	defer dbAdmin.Close()

	ensureInstance(ctx, instAdmin, parent, instName, instanceID)

	op, err := dbAdmin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          instName,
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", databaseID),
		ExtraStatements: loadSchema(),
	})
	if err != nil {
		panic(fmt.Sprintf("CreateDatabase: %v", err))
	}
	if _, err := op.Wait(ctx); err != nil {
		panic(fmt.Sprintf("CreateDatabase wait: %v", err))
	}

	spClient, err = spanner.NewClient(ctx, dbName)
	if err != nil {
		panic(fmt.Sprintf("spanner.NewClient: %v", err))
	}

	logger := hclog.New(&hclog.LoggerOptions{Name: "e2e", Level: hclog.Warn})
	store = repo.NewSpannerStore(spClient, committer.NewAdapter(spClient), clk)
	mediaMem = media.NewMemory()
	readModel = queries.NewSpannerReadModel(spClient)

	createUC = create_product.NewInteractor(store, mediaMem, clk, logger)
	updateUC = update_product.NewInteractor(store, mediaMem, clk, logger)
	deleteUC = delete_product.NewInteractor(store, mediaMem, clk, logger)
	batchUC = batch_delete_products.NewInteractor(store, mediaMem, clk, logger)

	code := m.Run()

	spClient.Close()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel2()
	_ = dbAdmin.DropDatabase(ctx2, &databasepb.DropDatabaseRequest{Database: dbName})

	os.Exit(code)
}

func ensureInstance(ctx context.Context, admin *instance.InstanceAdminClient, parent, instName, instanceID string) {
	_, err := admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: instName})
	if err == nil {
		return
	}
	if status.Code(err) != codes.NotFound {
		panic(fmt.Sprintf("GetInstance: %v", err))
	}

	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     parent,
		InstanceId: instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("%s/instanceConfigs/emulator-config", parent),
			DisplayName: "E2E Test Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			panic(fmt.Sprintf("CreateInstance: %v", err))
		}
		return
	}
	if _, err := op.Wait(ctx); err != nil {
		panic(fmt.Sprintf("CreateInstance wait: %v", err))
	}
}

func loadSchema() []string {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	if err != nil {
		panic(err)
	}
	sort.Strings(files)

	var out []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			panic(fmt.Sprintf("read %s: %v", f, err))
		}
		for _, p := range strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), ";") {
			if stmt := strings.TrimSpace(p); stmt != "" {
				out = append(out, stmt)
			}
		}
	}
	return out
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEmulator(t *testing.T) {
	t.Helper()
	if spClient == nil {
		t.Skip("SPANNER_EMULATOR_HOST is not set")
	}
}

// seedBrand stores a brand with a unique id and returns it.
func seedBrand(ctx context.Context, t *testing.T) *domain.Brand {
	t.Helper()
	id := "brand-" + uuid.New().String()[:8]
	b, err := domain.NewBrand(id, "Brand "+id, "/media/brands/"+id+".png", false, clk.Now())
	require.NoError(t, err)
	require.NoError(t, store.InsertBrand(ctx, b))
	return b
}

func brandCount(ctx context.Context, t *testing.T, id string) int64 {
	t.Helper()
	b, err := store.FindBrand(ctx, id)
	require.NoError(t, err)
	return b.ProductsCount
}
