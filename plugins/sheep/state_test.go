package sheep

import "testing"

func TestShouldDeliver(t *testing.T) {
	t.Parallel()
	ann := Announcement{AnnouncementID: "A1", Date: "2024-05-01"}

	tests := []struct {
		name  string
		last  string
		today string
		want  bool
	}{
		{name: "fresh today", last: "", today: "2024-05-01", want: true},
		{name: "stale date", last: "", today: "2024-05-02", want: false},
		{name: "already delivered", last: "A1", today: "2024-05-01", want: false},
		{name: "different id today", last: "A0", today: "2024-05-01", want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			st := &State{LastDeliveredID: tt.last}
			if got := st.ShouldDeliver(ann, tt.today); got != tt.want {
				t.Fatalf("ShouldDeliver = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordDeliveredSuppressesRepeat(t *testing.T) {
	t.Parallel()
	ann := Announcement{AnnouncementID: "A1", Date: "2024-05-01"}
	st := &State{}
	if !st.ShouldDeliver(ann, "2024-05-01") {
		t.Fatal("first check should deliver")
	}
	st.RecordDelivered(ann)
	if st.ShouldDeliver(ann, "2024-05-01") {
		t.Fatal("repeat after RecordDelivered should not deliver")
	}
}
