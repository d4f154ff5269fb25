package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lei/hikvision-gateway/pkg/isapi/client"
	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

var _ Requester = (*client.Gateway)(nil)

func fixedID() Option {
	return WithSearchIDGenerator(func() string { return "search-1" })
}

func mustParse(t *testing.T, s string) wire.Value {
	t.Helper()
	v, err := wire.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

// bodyJSON returns the compact JSON of a captured request body.
func bodyJSON(t *testing.T, body any) string {
	t.Helper()
	v, ok := body.(wire.Value)
	require.True(t, ok, "body is %T", body)
	return v.String()
}

func TestPage(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		position int
		limit    int
	}{
		{"page 2 of 30", Page{Number: 2, Size: 30}, 60, 30},
		{"first page", FirstPage(), 0, 30},
		{"unset size", Page{Number: 1}, 30, 30},
		{"oversized", Page{Number: 1, Size: 100}, 30, 30},
		{"small", Page{Number: 3, Size: 10}, 30, 10},
		{"negative number", Page{Number: -4, Size: 5}, 0, 5},
		{"huge number", Page{Number: math.MaxInt, Size: 30}, 2147483640, 30},
		{"huge number unset size", Page{Number: math.MaxInt}, 2147483640, 30},
		{"huge number small size", Page{Number: math.MaxInt, Size: 7}, 2147483646, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.position, tt.page.Position())
			assert.Equal(t, tt.limit, tt.page.Limit())
		})
	}
}

func TestSearchEnvelope(t *testing.T) {
	b := newBase(nil, []Option{fixedID()})

	env := b.searchEnvelope("UserInfoSearchCond", Page{Number: 2, Size: 30}, wire.M("employeeNo", wire.String("E1")))
	assert.JSONEq(t,
		`{"UserInfoSearchCond":{"searchID":"search-1","searchResultPosition":60,"maxResults":30,"employeeNo":"E1"}}`,
		env.String())
}

func TestSearchID_UniquePerCall(t *testing.T) {
	b := newBase(nil, nil)

	first := b.searchEnvelope("C", FirstPage()).Path("C", "searchID").StringOr("")
	second := b.searchEnvelope("C", FirstPage()).Path("C", "searchID").StringOr("")

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestDeleteEnvelopes(t *testing.T) {
	assert.JSONEq(t,
		`{"UserInfoDelCond":{"EmployeeNoList":[{"employeeNo":"A"},{"employeeNo":"B"}]}}`,
		deleteEnvelope("UserInfoDelCond", []string{"A", "B"}).String())

	assert.JSONEq(t,
		`{"CardInfoDelCond":{"mode":"all"}}`,
		deleteAllEnvelope("CardInfoDelCond").String())

	assert.JSONEq(t,
		`{"FingerPrintDelete":{"mode":"byEmployeeNo","EmployeeNoList":[{"employeeNo":"A"}]}}`,
		deleteEnvelope("FingerPrintDelete", []string{"A"}, wire.M("mode", wire.String("byEmployeeNo"))).String())
}

func TestDecodeList(t *testing.T) {
	resp := mustParse(t, `{"CardInfoSearch":{"CardInfo":{"employeeNo":"E1","cardNo":"1"}}}`)
	cards := decodeList(resp, models.CardFromWire, "CardInfoSearch", "CardInfo")
	require.Len(t, cards, 1)
	assert.Equal(t, "1", cards[0].CardNo)

	none := decodeList(wire.Object(), models.CardFromWire, "CardInfoSearch", "CardInfo")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPersonService_Count(t *testing.T) {
	tests := []struct {
		name string
		resp wire.Value
		want int
	}{
		{"present", mustParse(t, `{"UserInfo":{"userNumber":42}}`), 42},
		{"quoted", mustParse(t, `{"UserInfo":{"userNumber":"7"}}`), 7},
		{"missing", wire.Object(), 0},
		{"raw", wire.Object(wire.M("raw", wire.String("OK"))), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			req := NewMockRequester(ctrl)
			req.EXPECT().Get(gomock.Any(), "/ISAPI/AccessControl/UserInfo/Count", gomock.Nil()).Return(tt.resp, nil)

			n, err := NewPersonService(req).Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestPersonService_CountError(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	terr := &transport.Error{Message: "HTTP request failed"}
	req.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(wire.Value{}, terr)

	_, err := NewPersonService(req).Count(context.Background())
	assert.Same(t, terr, err)
}

func TestPersonService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/UserInfo/Search", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"UserInfoSearchCond":{"searchID":"search-1","searchResultPosition":60,"maxResults":30}}`,
				bodyJSON(t, body))
			return mustParse(t, `{"UserInfoSearch":{"searchID":"search-1","responseStatusStrg":"MORE","UserInfo":[
				{"employeeNo":"E1","name":"One","userType":"normal","Valid":{"enable":true}},
				{"employeeNo":"E2","name":"Two","userType":"visitor","Valid":{"enable":false}}
			]}}`), nil
		})

	persons, err := NewPersonService(req, fixedID()).Search(context.Background(), Page{Number: 2, Size: 30})
	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.Equal(t, "E1", persons[0].EmployeeNo)
	assert.Equal(t, models.UserTypeVisitor, persons[1].UserType)
	assert.False(t, persons[1].ValidEnabled)
}

func TestPersonService_SearchByEmployeeNo(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"UserInfoSearchCond":{"searchID":"search-1","searchResultPosition":0,"maxResults":10,"EmployeeNoList":[{"employeeNo":"E9"}]}}`,
				bodyJSON(t, body))
			return wire.Object(), nil
		})

	persons, err := NewPersonService(req, fixedID()).Search(context.Background(), Page{Size: 10}, "E9")
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestPersonService_Mutations(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	svc := NewPersonService(req)
	p := models.Person{EmployeeNo: "E1", Name: "One", UserType: models.UserTypeNormal, ValidEnabled: true}

	gomock.InOrder(
		req.EXPECT().Post(gomock.Any(), "/ISAPI/AccessControl/UserInfo/Record", p.ToWire(), gomock.Nil()).Return(wire.Object(), nil),
		req.EXPECT().Put(gomock.Any(), "/ISAPI/AccessControl/UserInfo/Modify", p.ToWire(), gomock.Nil()).Return(wire.Object(), nil),
		req.EXPECT().Put(gomock.Any(), "/ISAPI/AccessControl/UserInfo/SetUp", p.ToWire(), gomock.Nil()).Return(wire.Object(), nil),
		req.EXPECT().
			Put(gomock.Any(), "/ISAPI/AccessControl/UserInfo/Delete", gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
				assert.JSONEq(t,
					`{"UserInfoDelCond":{"EmployeeNoList":[{"employeeNo":"A"},{"employeeNo":"B"}]}}`,
					bodyJSON(t, body))
				return wire.Object(), nil
			}),
		req.EXPECT().
			Put(gomock.Any(), "/ISAPI/AccessControl/UserInfo/Delete", gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
				assert.JSONEq(t, `{"UserInfoDelCond":{"mode":"all"}}`, bodyJSON(t, body))
				return wire.Object(), nil
			}),
	)

	ctx := context.Background()
	_, err := svc.Add(ctx, p)
	require.NoError(t, err)
	_, err = svc.Update(ctx, p)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, p)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, []string{"A", "B"})
	require.NoError(t, err)
	_, err = svc.DeleteAll(ctx)
	require.NoError(t, err)
}

func TestCardService_BatchAdd_ContinuesPastFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	cards := []models.Card{
		{EmployeeNo: "E1", CardNo: "C1", Enabled: true},
		{EmployeeNo: "E2", CardNo: "C2", Enabled: true},
		{EmployeeNo: "E3", CardNo: "C3", Enabled: true},
	}

	var attempted []string
	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/CardInfo/Record", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			cardNo := body.(wire.Value).Path("CardInfo", "cardNo").StringOr("")
			attempted = append(attempted, cardNo)
			if cardNo == "C2" {
				return wire.Value{}, &transport.Error{Code: 400, Message: "Invalid Content (cardNoAlreadyExist)"}
			}
			return wire.Object(), nil
		}).
		Times(3)

	result := NewCardService(req).BatchAdd(context.Background(), cards)

	assert.Equal(t, []string{"C1", "C2", "C3"}, attempted)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "C2", result.Errors[0].Item)
	assert.Equal(t, "transport error 400: Invalid Content (cardNoAlreadyExist)", result.Errors[0].Error)
	assert.Error(t, result.Err())
}

func TestPersonService_BatchAdd_PreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			id := body.(wire.Value).Path("UserInfo", "employeeNo").StringOr("")
			if id == "E2" {
				return wire.Object(), nil
			}
			return wire.Value{}, fmt.Errorf("rejected %s", id)
		}).
		Times(3)

	persons := []models.Person{{EmployeeNo: "E1"}, {EmployeeNo: "E2"}, {EmployeeNo: "E3"}}
	result := NewPersonService(req).BatchAdd(context.Background(), persons)

	assert.Equal(t, models.BatchResult{
		Total:   3,
		Success: 1,
		Failed:  2,
		Errors: []models.BatchError{
			{Item: "E1", Error: "rejected E1"},
			{Item: "E3", Error: "rejected E3"},
		},
	}, result)
}

func TestBatch_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	result := NewCardService(NewMockRequester(ctrl)).BatchAdd(context.Background(), nil)

	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Errors)
	assert.NoError(t, result.Err())
}

func TestCardService_CountAndSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	svc := NewCardService(req, fixedID())

	req.EXPECT().
		Get(gomock.Any(), "/ISAPI/AccessControl/CardInfo/Count", url.Values{"employeeNo": {"E1"}}).
		Return(mustParse(t, `{"CardInfo":{"cardNumber":3}}`), nil)
	req.EXPECT().
		Get(gomock.Any(), "/ISAPI/AccessControl/CardInfo/Count", gomock.Nil()).
		Return(mustParse(t, `{"CardInfo":{}}`), nil)
	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/CardInfo/Search", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"CardInfoSearchCond":{"searchID":"search-1","searchResultPosition":30,"maxResults":30,"employeeNo":"E1","cardNo":"C1"}}`,
				bodyJSON(t, body))
			return mustParse(t, `{"CardInfoSearch":{"CardInfo":[{"employeeNo":"E1","cardNo":"C1","cardType":"normalCard"}]}}`), nil
		})

	ctx := context.Background()
	n, err := svc.Count(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	cards, err := svc.Search(ctx, Page{Number: 1}, CardFilter{EmployeeNo: "E1", CardNo: "C1"})
	require.NoError(t, err)
	assert.Equal(t, []models.Card{{EmployeeNo: "E1", CardNo: "C1", CardType: models.Ptr("normalCard"), Enabled: true}}, cards)
}

func TestCardService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	svc := NewCardService(req)

	req.EXPECT().
		Put(gomock.Any(), "/ISAPI/AccessControl/CardInfo/Delete", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t, `{"CardInfoDelCond":{"EmployeeNoList":[{"employeeNo":"A"},{"employeeNo":"B"}]}}`, bodyJSON(t, body))
			return wire.Object(), nil
		})
	req.EXPECT().
		Put(gomock.Any(), "/ISAPI/AccessControl/CardInfo/Delete", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t, `{"CardInfoDelCond":{"mode":"all"}}`, bodyJSON(t, body))
			return wire.Object(), nil
		})

	_, err := svc.Delete(context.Background(), []string{"A", "B"})
	require.NoError(t, err)
	_, err = svc.DeleteAll(context.Background())
	require.NoError(t, err)
}

func TestFingerprintService(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	svc := NewFingerprintService(req, fixedID())
	ctx := context.Background()

	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/FingerPrint/Search", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"FingerPrintCond":{"searchID":"search-1","searchResultPosition":0,"maxResults":30,"employeeNo":"E1"}}`,
				bodyJSON(t, body))
			return mustParse(t, `{"FingerPrintInfo":{"status":"OK"}}`), nil
		})
	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/FingerPrint/Record", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t, `{"FingerPrint":{"employeeNo":"E1","fingerPrintID":2,"fingerData":"ZmluZ2Vy"}}`, bodyJSON(t, body))
			return wire.Object(), nil
		})
	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/CaptureFingerPrint", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t, `{"FingerPrintCfg":{"collectTimeout":30}}`, bodyJSON(t, body))
			return wire.Object(), nil
		})
	req.EXPECT().
		Put(gomock.Any(), "/ISAPI/AccessControl/FingerPrint/Delete", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t, `{"FingerPrintDelete":{"mode":"byEmployeeNo","EmployeeNoList":[{"employeeNo":"E1"}]}}`, bodyJSON(t, body))
			return wire.Object(), nil
		})

	resp, err := svc.Search(ctx, FirstPage(), "E1")
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Path("FingerPrintInfo", "status").StringOr(""))

	_, err = svc.Add(ctx, "E1", 2, "ZmluZ2Vy")
	require.NoError(t, err)
	_, err = svc.Capture(ctx, 0)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, []string{"E1"})
	require.NoError(t, err)
}

func TestFaceService_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	svc := NewFaceService(req)
	ctx := context.Background()

	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/Intelligent/FDLib/2/picture", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t, `{"faceInfo":{"employeeNo":"E1","faceLibType":"blackFD"},"faceData":"aW1n"}`, bodyJSON(t, body))
			return wire.Object(), nil
		})
	req.EXPECT().
		PostMultipart(gomock.Any(), "/ISAPI/Intelligent/FDLib/FaceDataRecord", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, parts []transport.Part, _ url.Values) (wire.Value, error) {
			require.Len(t, parts, 2)
			assert.Equal(t, "FaceDataRecord", parts[0].Name)
			assert.JSONEq(t, `{"faceLibType":"blackFD","FDID":"1","FPID":"E1"}`, string(parts[0].Data))
			assert.Equal(t, "img", parts[1].Name)
			assert.Equal(t, "E1.jpg", parts[1].Filename)
			assert.Equal(t, []byte{0xff, 0xd8}, parts[1].Data)
			return wire.Object(), nil
		})
	req.EXPECT().
		Delete(gomock.Any(), "/ISAPI/Intelligent/FDLib/1/picture/9", gomock.Nil()).
		Return(wire.Object(), nil)

	_, err := svc.UploadFace(ctx, "E1", "aW1n", 2)
	require.NoError(t, err)
	_, err = svc.UploadFaceRecord(ctx, models.Face{EmployeeNo: "E1"}, []byte{0xff, 0xd8})
	require.NoError(t, err)
	_, err = svc.DeleteFace(ctx, 1, 9)
	require.NoError(t, err)
}

func TestFaceService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/Intelligent/FDLib/FDSearch", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"searchID":"search-1","searchResultPosition":0,"maxResults":30,"faceLibType":"blackFD","FDID":"1","FPID":"E1"}`,
				bodyJSON(t, body))
			return mustParse(t, `{"responseStatusStrg":"OK","MatchList":[{"FPID":"E1","faceURL":"http://dev/pic/1","name":"One"}]}`), nil
		})

	matches, err := NewFaceService(req, fixedID()).Search(context.Background(), FirstPage(), FaceFilter{FPID: "E1"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "E1", matches[0].FPID)
	assert.Equal(t, "http://dev/pic/1", matches[0].FaceURL)
}

func TestEventService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/AccessControl/AcsEvent", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"AcsEventCond":{"major":5,"minor":75,"startTime":"2024-05-01T00:00:00+08:00","searchID":"search-1","searchResultPosition":20,"maxResults":10}}`,
				bodyJSON(t, body))
			return mustParse(t, `{"AcsEvent":{"totalMatches":1,"InfoList":[{"major":5,"minor":75,"employeeNoString":"E1","time":"2024-05-01T08:00:00+08:00"}]}}`), nil
		})

	filter := EventFilter{Major: 5, Minor: 75, StartTime: "2024-05-01T00:00:00+08:00"}
	events, err := NewEventService(req, fixedID()).Search(context.Background(), filter, Page{Number: 2, Size: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "E1", events[0].EmployeeNo)
	assert.Equal(t, 75, events[0].Minor)
}

func TestEventService_SearchRawWindowOverridesConditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			cond := body.(wire.Value).Path("AcsEventCond")
			assert.Equal(t, 0, cond.Path("searchResultPosition").IntOr(-1))
			assert.Equal(t, 30, cond.Path("maxResults").IntOr(-1))
			assert.Equal(t, "search-1", cond.Path("searchID").StringOr(""))
			assert.Equal(t, "value", cond.Path("custom").StringOr(""))
			return wire.Object(), nil
		})

	conds := wire.Object(wire.M("custom", wire.String("value")), wire.M("maxResults", wire.Int(999)))
	_, err := NewEventService(req, fixedID()).SearchRaw(context.Background(), conds, FirstPage())
	require.NoError(t, err)
}

func TestEventService_Count(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want int
	}{
		{"top level", `{"totalNum":12}`, 12},
		{"enveloped", `{"AcsEventTotalNum":{"totalNum":5}}`, 5},
		{"missing", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			req := NewMockRequester(ctrl)
			req.EXPECT().
				Post(gomock.Any(), "/ISAPI/AccessControl/AcsEventTotalNum", gomock.Any(), gomock.Nil()).
				DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
					assert.JSONEq(t, `{"AcsEventTotalNumCond":{"major":5,"minor":0}}`, bodyJSON(t, body))
					return mustParse(t, tt.resp), nil
				})

			n, err := NewEventService(req).Count(context.Background(), EventFilter{Major: 5})
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestEventService_Subscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)

	req.EXPECT().
		Post(gomock.Any(), "/ISAPI/Event/notification/subscribeEvent", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
			assert.JSONEq(t,
				`{"SubscribeEvent":{"eventMode":"list","eventList":["AccessControllerEvent"],"heartbeat":60}}`,
				bodyJSON(t, body))
			return wire.Object(), nil
		})

	_, err := NewEventService(req).Subscribe(context.Background(), []string{"AccessControllerEvent"}, 0)
	require.NoError(t, err)
}

func TestDeviceService_IsOnline(t *testing.T) {
	tests := []struct {
		name string
		resp wire.Value
		err  error
		want bool
	}{
		{"info", mustParse(t, `{"DeviceInfo":{"deviceName":"Lobby"}}`), nil, true},
		{"raw body", wire.Object(wire.M("raw", wire.String("<html/>"))), nil, true},
		{"empty", wire.Object(), nil, true},
		{"unauthorized", wire.Value{}, &transport.Error{Code: 401, Err: transport.ErrUnauthorized}, false},
		{"network", wire.Value{}, &transport.Error{Message: "HTTP request failed", Err: errors.New("refused")}, false},
		{"timeout", wire.Value{}, context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			req := NewMockRequester(ctrl)
			req.EXPECT().Get(gomock.Any(), "/ISAPI/System/deviceInfo", gomock.Nil()).Return(tt.resp, tt.err)

			assert.Equal(t, tt.want, NewDeviceService(req).IsOnline(context.Background()))
		})
	}
}

func TestDeviceService_Info(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	req.EXPECT().
		Get(gomock.Any(), "/ISAPI/System/deviceInfo", gomock.Nil()).
		Return(mustParse(t, `{"DeviceInfo":{"deviceName":"Lobby","model":"DS-K1T671"}}`), nil)
	req.EXPECT().Get(gomock.Any(), "/ISAPI/System/status", gomock.Nil()).Return(wire.Object(), nil)
	req.EXPECT().Get(gomock.Any(), "/ISAPI/AccessControl/capabilities", gomock.Nil()).Return(wire.Object(), nil)

	svc := NewDeviceService(req)
	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Lobby", info.DeviceName)
	assert.Equal(t, "DS-K1T671", info.Model)

	_, err = svc.Status(context.Background())
	require.NoError(t, err)
	_, err = svc.Capabilities(context.Background())
	require.NoError(t, err)
}

func TestAccessControlService(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	svc := NewAccessControlService(req)
	ctx := context.Background()

	for _, cmd := range []DoorCommand{DoorOpen, DoorClose, DoorAlwaysOpen, DoorAlwaysClose} {
		want := fmt.Sprintf(`{"RemoteControlDoor":{"cmd":%q}}`, string(cmd))
		req.EXPECT().
			Put(gomock.Any(), "/ISAPI/AccessControl/RemoteControl/door/1", gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, _ string, body any, _ url.Values) (wire.Value, error) {
				assert.JSONEq(t, want, bodyJSON(t, body))
				return mustParse(t, `{"statusCode":1,"statusString":"OK","subStatusCode":"ok"}`), nil
			})
	}
	req.EXPECT().
		Get(gomock.Any(), "/ISAPI/AccessControl/DoorStatus/1", gomock.Nil()).
		Return(mustParse(t, `{"DoorStatus":{"doorState":"close"}}`), nil)

	status, err := svc.OpenDoor(ctx, 1)
	require.NoError(t, err)
	assert.True(t, status.OK())
	_, err = svc.CloseDoor(ctx, 1)
	require.NoError(t, err)
	_, err = svc.AlwaysOpen(ctx, 1)
	require.NoError(t, err)
	_, err = svc.AlwaysClose(ctx, 1)
	require.NoError(t, err)

	door, err := svc.DoorStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "close", door.Path("DoorStatus", "doorState").StringOr(""))
}

func TestAccessControlService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAccessControlService(NewMockRequester(ctrl))

	_, err := svc.OpenDoor(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidDoor)

	_, err = svc.ControlDoor(context.Background(), 1, DoorCommand("explode"))
	assert.ErrorIs(t, err, ErrUnknownDoorCommand)

	_, err = svc.DoorStatus(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidDoor)
}

func TestNewSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := NewMockRequester(ctrl)
	req.EXPECT().Get(gomock.Any(), "/ISAPI/System/deviceInfo", gomock.Nil()).Return(wire.Object(), nil)

	set := NewSet(req, fixedID())
	require.NotNil(t, set.Persons)
	require.NotNil(t, set.Cards)
	require.NotNil(t, set.Fingerprints)
	require.NotNil(t, set.Faces)
	require.NotNil(t, set.Events)
	require.NotNil(t, set.Access)
	assert.True(t, set.Device.IsOnline(context.Background()))
}
