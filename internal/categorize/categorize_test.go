package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohankatakam/testimpact/internal/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		path string
		want models.ChangeCategory
	}{
		// Test files win over everything else on the path.
		{"src/test/java/UserServiceTest.java", models.CategoryTest},
		{"web/cart.spec.ts", models.CategoryTest},
		{"tests/conftest.py", models.CategoryTest},

		{"db/migration/V3__add_orders.sql", models.CategoryMigration},
		{"src/main/resources/db/flyway/V1__init.sql", models.CategoryMigration},

		{"api/schema.proto", models.CategoryAPIContract},
		{"docs2/openapi.yaml", models.CategoryAPIContract},
		{"api/contract.json", models.CategoryAPIContract},

		{"src/main/resources/application.yaml", models.CategoryConfiguration},
		{"app.properties", models.CategoryConfiguration},
		{"settings.py", models.CategoryConfiguration},

		{"src/main/java/UserController.java", models.CategoryEndpoint},
		{"internal/handlers/checkout.go", models.CategoryEndpoint},

		{"src/main/java/dto/UserRequest.java", models.CategoryDTO},
		{"model/OrderResponse.java", models.CategoryDTO},

		{"src/main/java/UserRepository.java", models.CategoryQuery},
		{"queries/report.sql", models.CategoryQuery},
		{"db/UserDao.java", models.CategoryQuery},

		{"src/main/java/PaymentService.java", models.CategoryBusinessRule},
		{"core/domain/pricing.go", models.CategoryBusinessRule},
		{"billing/InvoiceCalculator.java", models.CategoryBusinessRule},

		{"assets/logo.png", models.CategoryOther},
		{"Makefile", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.path))
		})
	}
}

func TestCategorizeOrderMatters(t *testing.T) {
	// A controller test is a TEST change, not an ENDPOINT change.
	assert.Equal(t, models.CategoryTest, Categorize("src/test/java/UserControllerTest.java"))
	// A repository migration script is MIGRATION, not QUERY.
	assert.Equal(t, models.CategoryMigration, Categorize("repository/migration/V2__indexes.sql"))
}

func TestSelectTestType(t *testing.T) {
	tests := []struct {
		category models.ChangeCategory
		want     models.TestType
	}{
		{models.CategoryBusinessRule, models.TestTypeUnit},
		{models.CategoryDTO, models.TestTypeUnit},
		{models.CategoryEndpoint, models.TestTypeController},
		{models.CategoryQuery, models.TestTypeDataLayer},
		{models.CategoryMigration, models.TestTypeIntegration},
		{models.CategoryConfiguration, models.TestTypeIntegration},
		{models.CategoryAPIContract, models.TestTypeContract},
		{models.CategoryOther, models.TestTypeUnit},
		{models.ChangeCategory("BOGUS"), models.TestTypeUnit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SelectTestType(tt.category), string(tt.category))
	}
}
