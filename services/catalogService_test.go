package services

import (
	"context"
	"testing"

	"Hospitality/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogAPI struct {
	medicineCalls int
}

func (f *fakeCatalogAPI) FetchMedicineList(ctx context.Context, token string) ([]models.Medicine, error) {
	f.medicineCalls++
	return []models.Medicine{
		{MedicineID: "MED-1", MedicineName: "Amoxicillin"},
		{MedicineID: "MED-2", MedicineName: "Paracetamol"},
		{MedicineID: "MED-3", MedicineName: "Ibuprofen"},
	}, nil
}

func (f *fakeCatalogAPI) FetchTargetOrgans(ctx context.Context, token string) ([]models.TargetOrgan, error) {
	return []models.TargetOrgan{{TargetOrganID: 1, TargetOrganName: "Heart"}}, nil
}

func (f *fakeCatalogAPI) FetchLabTestTypes(ctx context.Context, token string) ([]models.LabTestType, error) {
	return []models.LabTestType{{TestTypeID: 3, TestName: "CBC"}}, nil
}

func TestSearchMedicines(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogAPI{}, nil)
	ctx := context.Background()

	all, err := svc.SearchMedicines(ctx, testSession(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := svc.SearchMedicines(ctx, testSession(), "PARA")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Paracetamol", matched[0].MedicineName)

	// Surrounding whitespace is ignored.
	matched, err = svc.SearchMedicines(ctx, testSession(), "  profen ")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Ibuprofen", matched[0].MedicineName)

	none, err := svc.SearchMedicines(ctx, testSession(), "aspirin")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogsWithoutCacheGoUpstream(t *testing.T) {
	api := &fakeCatalogAPI{}
	svc := NewCatalogService(api, nil)
	ctx := context.Background()

	_, err := svc.Medicines(ctx, testSession())
	require.NoError(t, err)
	_, err = svc.Medicines(ctx, testSession())
	require.NoError(t, err)
	assert.Equal(t, 2, api.medicineCalls)

	organs, err := svc.TargetOrgans(ctx, testSession())
	require.NoError(t, err)
	require.Len(t, organs, 1)
	assert.Equal(t, "Heart", organs[0].TargetOrganName)

	types, err := svc.LabTestTypes(ctx, testSession())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "CBC", types[0].TestName)
}
