package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendra/licensing-api/internal/models"
)

// schemaEnumValues extracts the accepted values from a column's CHECK ... IN
// constraint inside one table definition of the initial migration.
func schemaEnumValues(t *testing.T, schema, table, column string) map[string]bool {
	t.Helper()
	tableRe := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\);`)
	tm := tableRe.FindStringSubmatch(schema)
	require.NotNilf(t, tm, "no CREATE TABLE for %s", table)

	checkRe := regexp.MustCompile(`CHECK \(` + column + ` IN \(([^)]+)\)`)
	cm := checkRe.FindStringSubmatch(tm[1])
	require.NotNilf(t, cm, "no CHECK constraint for %s.%s", table, column)

	values := map[string]bool{}
	for _, v := range strings.Split(cm[1], ",") {
		values[strings.Trim(strings.TrimSpace(v), "'")] = true
	}
	return values
}

// The enum constants in models and the CHECK constraints in the schema must
// accept exactly the same values, otherwise writes that pass service
// validation are rejected by the database.
func TestSchemaEnumsMatchModelConstants(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)
	schema := string(raw)

	tests := []struct {
		table  string
		column string
		values []string
	}{
		{"users", "role", []string{
			string(models.UserRoleStaff),
			string(models.UserRoleCustomer),
		}},
		{"customers", "customer_type", []string{
			string(models.CustomerTypeIndividual),
			string(models.CustomerTypePartner),
			string(models.CustomerTypeReseller),
			string(models.CustomerTypeSolutionProvider),
		}},
		{"customers", "status", []string{
			string(models.CustomerStatusPendingApproval),
			string(models.CustomerStatusActive),
			string(models.CustomerStatusInactive),
			string(models.CustomerStatusSuspended),
		}},
		{"contracts", "billing_cycle", []string{
			string(models.BillingCycleAnnual),
			string(models.BillingCycleMonthly),
			string(models.BillingCycleQuarterly),
		}},
		{"contracts", "billing_status", []string{
			string(models.BillingStatusPending),
			string(models.BillingStatusBilled),
			string(models.BillingStatusReceived),
			string(models.BillingStatusPaid),
			string(models.BillingStatusLate),
			string(models.BillingStatusCanceled),
		}},
		{"purchase_orders", "status", []string{
			string(models.PurchaseOrderStatusPending),
			string(models.PurchaseOrderStatusApproved),
			string(models.PurchaseOrderStatusRejected),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.table+"."+tt.column, func(t *testing.T) {
			accepted := schemaEnumValues(t, schema, tt.table, tt.column)
			for _, v := range tt.values {
				assert.Truef(t, accepted[v], "%s.%s: value %q not accepted by schema", tt.table, tt.column, v)
			}
			assert.Lenf(t, accepted, len(tt.values), "%s.%s: schema accepts extra values", tt.table, tt.column)
		})
	}
}
