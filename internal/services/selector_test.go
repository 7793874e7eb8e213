package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/pkg/logger"
	"github.com/pratik-mahalle/arcbenefit/internal/testutil"
)

const testSubscription = "00000000-0000-0000-0000-000000000001"

func newTestSelector(client *testutil.MockResourceClient) machine.Selector {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewSelectorService(client, testSubscription, "2024-07-10", log)
}

func TestSelectorService_SingleMachine(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-01", "Windows Server 2022 Datacenter"))
	selector := newTestSelector(client)

	machines, err := selector.Select(context.Background(), machine.SingleMachine("prod-rg", "web-01"), nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(machines) != 1 {
		t.Fatalf("Select() returned %d machines, want 1", len(machines))
	}

	m := machines[0]
	if m.Name != "web-01" {
		t.Errorf("Name = %q, want web-01", m.Name)
	}
	if m.ResourceGroup != "prod-rg" {
		t.Errorf("ResourceGroup = %q, want prod-rg", m.ResourceGroup)
	}
	if m.OSName != "Windows Server 2022 Datacenter" {
		t.Errorf("OSName = %q", m.OSName)
	}
	if m.ResourceID != azure.MachineID(testSubscription, "prod-rg", "web-01") {
		t.Errorf("ResourceID = %q", m.ResourceID)
	}
}

func TestSelectorService_SingleMachineSkipsOSFilter(t *testing.T) {
	// An explicitly named machine is returned even when it is not
	// running Windows; the reconciler surfaces the real ARM error.
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "db-01", "Ubuntu 22.04"))
	selector := newTestSelector(client)

	machines, err := selector.Select(context.Background(), machine.SingleMachine("prod-rg", "db-01"), nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(machines) != 1 {
		t.Fatalf("Select() returned %d machines, want 1", len(machines))
	}
}

func TestSelectorService_SingleMachineNotFound(t *testing.T) {
	client := testutil.NewMockResourceClient()
	selector := newTestSelector(client)

	_, err := selector.Select(context.Background(), machine.SingleMachine("prod-rg", "ghost"), nil)
	if !errors.Is(err, machine.ErrNotFound) {
		t.Errorf("Select() error = %v, want ErrNotFound", err)
	}
}

func TestSelectorService_SingleMachineReadError(t *testing.T) {
	client := testutil.NewMockResourceClient()
	id := azure.MachineID(testSubscription, "prod-rg", "web-01")
	client.GetErrors[id] = &azcore.ResponseError{StatusCode: http.StatusInternalServerError, ErrorCode: "InternalServerError"}
	selector := newTestSelector(client)

	_, err := selector.Select(context.Background(), machine.SingleMachine("prod-rg", "web-01"), nil)
	if err == nil {
		t.Fatal("Select() expected error")
	}
	if errors.Is(err, machine.ErrNotFound) {
		t.Errorf("Select() error = %v, should not map server errors to ErrNotFound", err)
	}
}

func TestSelectorService_ResourceGroupScope(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-01", "Windows Server 2019 Standard"))
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "db-01", "Ubuntu 22.04"))
	client.Add(testutil.ArcMachine(testSubscription, "dev-rg", "web-02", "Windows Server 2022 Datacenter"))
	selector := newTestSelector(client)

	machines, err := selector.Select(context.Background(), machine.AllInResourceGroup("prod-rg"), nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(machines) != 1 {
		t.Fatalf("Select() returned %d machines, want 1", len(machines))
	}
	if machines[0].Name != "web-01" {
		t.Errorf("Select() returned %q, want web-01", machines[0].Name)
	}
}

func TestSelectorService_SubscriptionScope(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-01", "Windows Server 2019 Standard"))
	client.Add(testutil.ArcMachine(testSubscription, "dev-rg", "web-02", "Windows Server 2022 Datacenter"))
	client.Add(testutil.ArcMachine(testSubscription, "dev-rg", "build-01", "Debian 12"))
	selector := newTestSelector(client)

	machines, err := selector.Select(context.Background(), machine.AllInSubscription(), nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(machines) != 2 {
		t.Fatalf("Select() returned %d machines, want 2", len(machines))
	}
	if machines[0].Name != "web-01" || machines[1].Name != "web-02" {
		t.Errorf("Select() returned %q, %q; want web-01, web-02", machines[0].Name, machines[1].Name)
	}
}

func TestSelectorService_Exclusion(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-01", "Windows Server 2019 Standard"))
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-02", "Windows Server 2019 Standard"))
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-03", "Windows Server 2022 Datacenter"))
	selector := newTestSelector(client)

	tests := []struct {
		name    string
		exclude []string
		want    []string
		wantErr error
	}{
		{
			name:    "exclude one of three",
			exclude: []string{"web-02"},
			want:    []string{"web-01", "web-03"},
		},
		{
			name:    "exclusion is case sensitive",
			exclude: []string{"WEB-01"},
			want:    []string{"web-01", "web-02", "web-03"},
		},
		{
			name:    "exclude everything",
			exclude: []string{"web-01", "web-02", "web-03"},
			wantErr: machine.ErrNoMachines,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machines, err := selector.Select(context.Background(), machine.AllInResourceGroup("prod-rg"), tt.exclude)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Select() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if len(machines) != len(tt.want) {
				t.Fatalf("Select() returned %d machines, want %d", len(machines), len(tt.want))
			}
			for i, name := range tt.want {
				if machines[i].Name != name {
					t.Errorf("machines[%d] = %q, want %q", i, machines[i].Name, name)
				}
			}
		})
	}
}

func TestSelectorService_EmptyScope(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "db-01", "Ubuntu 22.04"))
	selector := newTestSelector(client)

	_, err := selector.Select(context.Background(), machine.AllInSubscription(), nil)
	if !errors.Is(err, machine.ErrNoMachines) {
		t.Errorf("Select() error = %v, want ErrNoMachines", err)
	}
}

func TestSelectorService_SkipsMachineOnDetailFailure(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-01", "Windows Server 2019 Standard"))
	client.Add(testutil.ArcMachine(testSubscription, "prod-rg", "web-02", "Windows Server 2019 Standard"))
	client.GetErrors[azure.MachineID(testSubscription, "prod-rg", "web-01")] =
		&azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "AuthorizationFailed"}
	selector := newTestSelector(client)

	machines, err := selector.Select(context.Background(), machine.AllInResourceGroup("prod-rg"), nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(machines) != 1 || machines[0].Name != "web-02" {
		t.Errorf("Select() = %+v, want just web-02", machines)
	}
}

func TestSelectorService_ListFailure(t *testing.T) {
	client := testutil.NewMockResourceClient()
	client.ListError = errors.New("throttled")
	selector := newTestSelector(client)

	_, err := selector.Select(context.Background(), machine.AllInSubscription(), nil)
	if err == nil {
		t.Fatal("Select() expected error")
	}
}
