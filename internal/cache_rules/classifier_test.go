package cache_rules

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"gql-proxy-cache/internal/interfaces/mock"
	"gql-proxy-cache/internal/models"
)

func TestNewClassifier(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockCacheRulesConfig(ctrl)

	classifier := NewClassifier(logger, mockConfig)

	if classifier == nil {
		t.Fatal("NewClassifier returned nil")
	}
	if classifier.logger != logger {
		t.Error("Logger not set correctly")
	}
	if classifier.configTTL != mockConfig {
		t.Error("ConfigTTL not set correctly")
	}
}

func TestGetTtl_NilOrEmptyRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockCacheRulesConfig(ctrl)
	classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)

	for _, req := range []*models.QueryRequest{nil, {Query: ""}} {
		result := classifier.GetTtl(req)
		if result.TTL != 0 || result.CacheType != models.CacheTypeNone {
			t.Errorf("GetTtl(%v) = %+v, want none with zero TTL", req, result)
		}
	}
}

func TestGetTtl_NoRulesSkipsParsing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockCacheRulesConfig(ctrl)
	mockConfig.EXPECT().HasOperationRules().Return(false)
	mockConfig.EXPECT().GetCacheTypeForOperation(gomock.Any(), gomock.Any()).Times(0)
	mockConfig.EXPECT().GetTtlForCacheType(models.CacheTypeDefault).Return(24 * time.Hour)

	classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)

	// Not even valid GraphQL; without rules it must not matter
	result := classifier.GetTtl(&models.QueryRequest{Query: "{{{"})

	if result.TTL != 24*time.Hour || result.CacheType != models.CacheTypeDefault {
		t.Errorf("GetTtl() = %+v, want default/24h", result)
	}
}

func TestGetTtl_WithRules(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		operationName string
		wantOpType    string
		wantOpName    string
		cacheType     models.CacheType
		ttl           time.Duration
		wantType      models.CacheType
		wantTTL       time.Duration
	}{
		{
			name:       "anonymous query",
			query:      "{ Page { pageInfo { total } } }",
			wantOpType: "query",
			cacheType:  models.CacheTypeDefault,
			ttl:        24 * time.Hour,
			wantType:   models.CacheTypeDefault,
			wantTTL:    24 * time.Hour,
		},
		{
			name:       "named short query",
			query:      "query TrendingAnime { Page { media(sort: TRENDING_DESC) { id } } }",
			wantOpType: "query",
			wantOpName: "TrendingAnime",
			cacheType:  models.CacheTypeShort,
			ttl:        5 * time.Minute,
			wantType:   models.CacheTypeShort,
			wantTTL:    5 * time.Minute,
		},
		{
			name:       "mutation",
			query:      "mutation Save { SaveMediaListEntry(mediaId: 1) { id } }",
			wantOpType: "mutation",
			wantOpName: "Save",
			cacheType:  models.CacheTypeNone,
			ttl:        0,
			wantType:   models.CacheTypeNone,
			wantTTL:    0,
		},
		{
			name:          "operation selected by name",
			query:         "query A { Viewer { id } } query B { Page { pageInfo { total } } }",
			operationName: "B",
			wantOpType:    "query",
			wantOpName:    "B",
			cacheType:     models.CacheTypeShort,
			ttl:           time.Minute,
			wantType:      models.CacheTypeShort,
			wantTTL:       time.Minute,
		},
		{
			name:       "zero ttl turns into none",
			query:      "query Zero { Viewer { id } }",
			wantOpType: "query",
			wantOpName: "Zero",
			cacheType:  models.CacheTypeShort,
			ttl:        0,
			wantType:   models.CacheTypeNone,
			wantTTL:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockConfig := mock.NewMockCacheRulesConfig(ctrl)
			mockConfig.EXPECT().HasOperationRules().Return(true)
			mockConfig.EXPECT().GetCacheTypeForOperation(tt.wantOpType, tt.wantOpName).Return(tt.cacheType)
			if tt.cacheType != models.CacheTypeNone {
				mockConfig.EXPECT().GetTtlForCacheType(tt.cacheType).Return(tt.ttl)
			}

			classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)
			result := classifier.GetTtl(&models.QueryRequest{Query: tt.query, OperationName: tt.operationName})

			if result.CacheType != tt.wantType {
				t.Errorf("GetTtl() CacheType = %v, want %v", result.CacheType, tt.wantType)
			}
			if result.TTL != tt.wantTTL {
				t.Errorf("GetTtl() TTL = %v, want %v", result.TTL, tt.wantTTL)
			}
		})
	}
}

func TestGetTtl_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		operationName string
	}{
		{"unparseable query", "query { Page {", ""},
		{"ambiguous document", "query A { Viewer { id } } query B { Viewer { id } }", ""},
		{"unknown operation name", "query A { Viewer { id } }", "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockConfig := mock.NewMockCacheRulesConfig(ctrl)
			mockConfig.EXPECT().HasOperationRules().Return(true)
			mockConfig.EXPECT().GetCacheTypeForOperation(gomock.Any(), gomock.Any()).Times(0)
			mockConfig.EXPECT().GetTtlForCacheType(models.CacheTypeDefault).Return(time.Hour)

			classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)
			result := classifier.GetTtl(&models.QueryRequest{Query: tt.query, OperationName: tt.operationName})

			if result.CacheType != models.CacheTypeDefault || result.TTL != time.Hour {
				t.Errorf("GetTtl() = %+v, want default/1h", result)
			}
		})
	}
}

func TestGetTtl_RealConfig(t *testing.T) {
	config := NewCacheConfig(&CacheRulesConfig{
		TTLDefaults:    TTLDefaults{models.CacheTypeShort: 300 * time.Second},
		OperationTypes: map[string]models.CacheType{"mutation": models.CacheTypeNone},
		Operations:     map[string]models.CacheType{"Trending": models.CacheTypeShort},
	}, 86400*time.Second, zaptest.NewLogger(t))

	classifier := NewClassifier(zaptest.NewLogger(t), config)

	tests := []struct {
		query    string
		wantTTL  time.Duration
		wantType models.CacheType
	}{
		{"{ Media(id: 1) { id } }", 86400 * time.Second, models.CacheTypeDefault},
		{"query Trending { Page { media { id } } }", 300 * time.Second, models.CacheTypeShort},
		{"mutation { ToggleFavourite(animeId: 1) { anime { nodes { id } } } }", 0, models.CacheTypeNone},
	}

	for _, tt := range tests {
		result := classifier.GetTtl(&models.QueryRequest{Query: tt.query})
		if result.TTL != tt.wantTTL || result.CacheType != tt.wantType {
			t.Errorf("GetTtl(%q) = %+v, want %v/%v", tt.query, result, tt.wantType, tt.wantTTL)
		}
	}
}

func TestSelectOperation_SingleNamed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockCacheRulesConfig(ctrl)
	mockConfig.EXPECT().HasOperationRules().Return(true)
	// A single named operation is selected without operationName
	mockConfig.EXPECT().GetCacheTypeForOperation("subscription", "OnActivity").Return(models.CacheTypeNone)

	classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)
	result := classifier.GetTtl(&models.QueryRequest{Query: "subscription OnActivity { Activity { id } }"})

	if result.CacheType != models.CacheTypeNone {
		t.Errorf("GetTtl() CacheType = %v, want none", result.CacheType)
	}
}
