package catalog

import "slices"

var sampleServices = []Service{
	{ID: "svc-general", Name: "Khám tổng quát", Description: "General health checkup", Category: "general"},
	{ID: "svc-cardio", Name: "Tim mạch", Description: "Cardiology consultation and ECG", Category: "specialist"},
	{ID: "svc-derm", Name: "Da liễu", Description: "Dermatology consultation", Category: "specialist"},
	{ID: "svc-peds", Name: "Nhi khoa", Description: "Pediatric care for children", Category: "general"},
	{ID: "svc-dental", Name: "Nha khoa", Description: "Dental cleaning and checkup", Category: "dental"},
}

var sampleDoctors = []Doctor{
	{ID: "doc-an", FullName: "Nguyễn Văn An", Gender: GenderMale, Specialty: "Nội tổng quát", ServiceIDs: []string{"svc-general", "svc-cardio"}},
	{ID: "doc-binh", FullName: "Trần Thị Bình", Gender: GenderFemale, Specialty: "Da liễu", ServiceIDs: []string{"svc-derm"}},
	{ID: "doc-cuong", FullName: "Lê Minh Cường", Gender: GenderMale, Specialty: "Tim mạch", ServiceIDs: []string{"svc-cardio"}},
	{ID: "doc-dung", FullName: "Phạm Thu Dung", Gender: GenderFemale, Specialty: "Nhi khoa", ServiceIDs: []string{"svc-peds", "svc-general"}},
	{ID: "doc-duc", FullName: "Đặng Hữu Đức", Gender: GenderMale, Specialty: "Răng hàm mặt", ServiceIDs: []string{"svc-dental"}},
}

// SampleDoctors returns the bundled demo doctors.
func SampleDoctors() []Doctor {
	out := make([]Doctor, len(sampleDoctors))
	for i, d := range sampleDoctors {
		d.ServiceIDs = slices.Clone(d.ServiceIDs)
		out[i] = d
	}
	return out
}

// SampleServices returns the bundled demo services.
func SampleServices() []Service {
	return slices.Clone(sampleServices)
}
