package h3mapper

// faceCenterGeo is the center of each icosahedron face in radians.
var faceCenterGeo = [numFaces]latLng{
	{0.80358264971899, 1.2483974196173961},
	{1.3077478834556382, 2.5369450098779214},
	{1.054751253523952, -1.3475173589003966},
	{0.6001915955381868, -0.45060390946975576},
	{0.49171542819877384, 0.40198820291130694},
	{0.1727453274156187, 1.6781468852804338},
	{0.6059293215713507, 2.9539233298124117},
	{0.42737051832897965, -1.8888762003362853},
	{-0.07906611854921283, -0.7334295133808677},
	{-0.23096164445538364, 0.506495587332349},
	{0.07906611854921283, 2.4081631402089254},
	{0.23096164445538364, -2.635097066257444},
	{-0.1727453274156187, -1.4634457683093596},
	{-0.6059293215713507, -0.18766932377738163},
	{-0.42737051832897965, 1.2527164532535078},
	{-0.6001915955381868, 2.6909887441200375},
	{-0.49171542819877384, -2.7396044506784865},
	{-0.80358264971899, -1.8931952339723972},
	{-1.3077478834556382, -0.6046476437118721},
	{-1.054751253523952, 1.7940752946893965},
}

// faceCenterPoint is faceCenterGeo on the unit sphere.
var faceCenterPoint = [numFaces]vec3d{
	{0.219930779140460636, 0.658369178027499613, 0.719847537892618239},
	{-0.213923483450142060, 0.147817182955070320, 0.965601793521420504},
	{0.109262527878479676, -0.481195157287320929, 0.869777512128725339},
	{0.742856730158679146, -0.359394167827802757, 0.564800593651703320},
	{0.811253470914096941, 0.344895323763938388, 0.472138773641393006},
	{-0.105549814961392055, 0.979445729641141294, 0.171887461000936548},
	{-0.807540757997009195, 0.153355248589881865, 0.569526199488268769},
	{-0.284614806978790658, -0.864408097265420561, 0.414479255247353850},
	{0.740562147385448122, -0.667329956456552353, -0.078983764632673703},
	{0.851230398647429332, 0.472234378858268078, -0.228913738868780775},
	{-0.740562147385448122, 0.667329956456552464, 0.078983764632673703},
	{-0.851230398647429221, -0.472234378858268244, 0.228913738868780775},
	{0.105549814961391958, -0.979445729641141294, -0.171887461000936548},
	{0.807540757997009195, -0.153355248589881921, -0.569526199488268769},
	{0.284614806978790769, 0.864408097265420450, -0.414479255247353850},
	{-0.742856730158679146, 0.359394167827802702, -0.564800593651703320},
	{-0.811253470914097052, -0.344895323763938277, -0.472138773641393006},
	{-0.219930779140460692, -0.658369178027499613, -0.719847537892618239},
	{0.213923483450142032, -0.147817182955070375, -0.965601793521420504},
	{-0.109262527878479621, 0.481195157287320929, -0.869777512128725339},
}

// faceAxesAzRadsCII is the azimuth from each face center to its Class II i-axis.
var faceAxesAzRadsCII = [numFaces]float64{
	5.6199582685239395, 5.7603390817141875, 0.78021365439343, 0.4304693639799999,
	6.130269123335111, 2.692877706530643, 2.982963003477244, 3.532912002790141,
	3.494305004259568, 3.0032141694995382, 5.930472956509812, 0.13837848409025486,
	0.4487149470591504, 0.15862965011254937, 5.891865957979238, 2.711123289609793,
	3.294508837434268, 3.80481969224544, 3.6644388790551923, 2.361378999196363,
}

// faceNeighbors holds, per face, the central face then the IJ, KI and JK
// neighbors with the translation and ccw rotations into their frame.
var faceNeighbors = [numFaces][4]faceOrient{
	{{0, coordIJK{0, 0, 0}, 0}, {4, coordIJK{2, 0, 2}, 1}, {1, coordIJK{2, 2, 0}, 5}, {5, coordIJK{0, 2, 2}, 3}},
	{{1, coordIJK{0, 0, 0}, 0}, {0, coordIJK{2, 0, 2}, 1}, {2, coordIJK{2, 2, 0}, 5}, {6, coordIJK{0, 2, 2}, 3}},
	{{2, coordIJK{0, 0, 0}, 0}, {1, coordIJK{2, 0, 2}, 1}, {3, coordIJK{2, 2, 0}, 5}, {7, coordIJK{0, 2, 2}, 3}},
	{{3, coordIJK{0, 0, 0}, 0}, {2, coordIJK{2, 0, 2}, 1}, {4, coordIJK{2, 2, 0}, 5}, {8, coordIJK{0, 2, 2}, 3}},
	{{4, coordIJK{0, 0, 0}, 0}, {3, coordIJK{2, 0, 2}, 1}, {0, coordIJK{2, 2, 0}, 5}, {9, coordIJK{0, 2, 2}, 3}},
	{{5, coordIJK{0, 0, 0}, 0}, {10, coordIJK{2, 2, 0}, 3}, {14, coordIJK{2, 0, 2}, 3}, {0, coordIJK{0, 2, 2}, 3}},
	{{6, coordIJK{0, 0, 0}, 0}, {11, coordIJK{2, 2, 0}, 3}, {10, coordIJK{2, 0, 2}, 3}, {1, coordIJK{0, 2, 2}, 3}},
	{{7, coordIJK{0, 0, 0}, 0}, {12, coordIJK{2, 2, 0}, 3}, {11, coordIJK{2, 0, 2}, 3}, {2, coordIJK{0, 2, 2}, 3}},
	{{8, coordIJK{0, 0, 0}, 0}, {13, coordIJK{2, 2, 0}, 3}, {12, coordIJK{2, 0, 2}, 3}, {3, coordIJK{0, 2, 2}, 3}},
	{{9, coordIJK{0, 0, 0}, 0}, {14, coordIJK{2, 2, 0}, 3}, {13, coordIJK{2, 0, 2}, 3}, {4, coordIJK{0, 2, 2}, 3}},
	{{10, coordIJK{0, 0, 0}, 0}, {5, coordIJK{2, 2, 0}, 3}, {6, coordIJK{2, 0, 2}, 3}, {15, coordIJK{0, 2, 2}, 3}},
	{{11, coordIJK{0, 0, 0}, 0}, {6, coordIJK{2, 2, 0}, 3}, {7, coordIJK{2, 0, 2}, 3}, {16, coordIJK{0, 2, 2}, 3}},
	{{12, coordIJK{0, 0, 0}, 0}, {7, coordIJK{2, 2, 0}, 3}, {8, coordIJK{2, 0, 2}, 3}, {17, coordIJK{0, 2, 2}, 3}},
	{{13, coordIJK{0, 0, 0}, 0}, {8, coordIJK{2, 2, 0}, 3}, {9, coordIJK{2, 0, 2}, 3}, {18, coordIJK{0, 2, 2}, 3}},
	{{14, coordIJK{0, 0, 0}, 0}, {9, coordIJK{2, 2, 0}, 3}, {5, coordIJK{2, 0, 2}, 3}, {19, coordIJK{0, 2, 2}, 3}},
	{{15, coordIJK{0, 0, 0}, 0}, {16, coordIJK{2, 0, 2}, 1}, {19, coordIJK{2, 2, 0}, 5}, {10, coordIJK{0, 2, 2}, 3}},
	{{16, coordIJK{0, 0, 0}, 0}, {17, coordIJK{2, 0, 2}, 1}, {15, coordIJK{2, 2, 0}, 5}, {11, coordIJK{0, 2, 2}, 3}},
	{{17, coordIJK{0, 0, 0}, 0}, {18, coordIJK{2, 0, 2}, 1}, {16, coordIJK{2, 2, 0}, 5}, {12, coordIJK{0, 2, 2}, 3}},
	{{18, coordIJK{0, 0, 0}, 0}, {19, coordIJK{2, 0, 2}, 1}, {17, coordIJK{2, 2, 0}, 5}, {13, coordIJK{0, 2, 2}, 3}},
	{{19, coordIJK{0, 0, 0}, 0}, {15, coordIJK{2, 0, 2}, 1}, {18, coordIJK{2, 2, 0}, 5}, {14, coordIJK{0, 2, 2}, 3}},
}

// baseCells lists the home face and IJK of each res 0 cell.
var baseCells = [numBaseCells]baseCellData{
	{homeFace: 1, homeIJK: coordIJK{1, 0, 0}}, // 0
	{homeFace: 2, homeIJK: coordIJK{1, 1, 0}}, // 1
	{homeFace: 1, homeIJK: coordIJK{0, 0, 0}}, // 2
	{homeFace: 2, homeIJK: coordIJK{1, 0, 0}}, // 3
	{homeFace: 0, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{-1, -1}}, // 4
	{homeFace: 1, homeIJK: coordIJK{1, 1, 0}}, // 5
	{homeFace: 1, homeIJK: coordIJK{0, 0, 1}}, // 6
	{homeFace: 2, homeIJK: coordIJK{0, 0, 0}}, // 7
	{homeFace: 0, homeIJK: coordIJK{1, 0, 0}}, // 8
	{homeFace: 2, homeIJK: coordIJK{0, 1, 0}}, // 9
	{homeFace: 1, homeIJK: coordIJK{0, 1, 0}}, // 10
	{homeFace: 1, homeIJK: coordIJK{0, 1, 1}}, // 11
	{homeFace: 3, homeIJK: coordIJK{1, 0, 0}}, // 12
	{homeFace: 3, homeIJK: coordIJK{1, 1, 0}}, // 13
	{homeFace: 11, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{2, 6}}, // 14
	{homeFace: 4, homeIJK: coordIJK{1, 0, 0}}, // 15
	{homeFace: 0, homeIJK: coordIJK{0, 0, 0}}, // 16
	{homeFace: 6, homeIJK: coordIJK{0, 1, 0}}, // 17
	{homeFace: 0, homeIJK: coordIJK{0, 0, 1}}, // 18
	{homeFace: 2, homeIJK: coordIJK{0, 1, 1}}, // 19
	{homeFace: 7, homeIJK: coordIJK{0, 0, 1}}, // 20
	{homeFace: 2, homeIJK: coordIJK{0, 0, 1}}, // 21
	{homeFace: 0, homeIJK: coordIJK{1, 1, 0}}, // 22
	{homeFace: 6, homeIJK: coordIJK{0, 0, 1}}, // 23
	{homeFace: 10, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{1, 5}}, // 24
	{homeFace: 6, homeIJK: coordIJK{0, 0, 0}}, // 25
	{homeFace: 3, homeIJK: coordIJK{0, 0, 0}}, // 26
	{homeFace: 11, homeIJK: coordIJK{1, 0, 0}}, // 27
	{homeFace: 4, homeIJK: coordIJK{1, 1, 0}}, // 28
	{homeFace: 3, homeIJK: coordIJK{0, 1, 0}}, // 29
	{homeFace: 0, homeIJK: coordIJK{0, 1, 1}}, // 30
	{homeFace: 4, homeIJK: coordIJK{0, 0, 0}}, // 31
	{homeFace: 5, homeIJK: coordIJK{0, 1, 0}}, // 32
	{homeFace: 0, homeIJK: coordIJK{0, 1, 0}}, // 33
	{homeFace: 7, homeIJK: coordIJK{0, 1, 0}}, // 34
	{homeFace: 11, homeIJK: coordIJK{1, 1, 0}}, // 35
	{homeFace: 7, homeIJK: coordIJK{0, 0, 0}}, // 36
	{homeFace: 10, homeIJK: coordIJK{1, 0, 0}}, // 37
	{homeFace: 12, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{3, 7}}, // 38
	{homeFace: 6, homeIJK: coordIJK{1, 0, 1}}, // 39
	{homeFace: 7, homeIJK: coordIJK{1, 0, 1}}, // 40
	{homeFace: 4, homeIJK: coordIJK{0, 0, 1}}, // 41
	{homeFace: 3, homeIJK: coordIJK{0, 0, 1}}, // 42
	{homeFace: 3, homeIJK: coordIJK{0, 1, 1}}, // 43
	{homeFace: 4, homeIJK: coordIJK{0, 1, 0}}, // 44
	{homeFace: 6, homeIJK: coordIJK{1, 0, 0}}, // 45
	{homeFace: 11, homeIJK: coordIJK{0, 0, 0}}, // 46
	{homeFace: 8, homeIJK: coordIJK{0, 0, 1}}, // 47
	{homeFace: 5, homeIJK: coordIJK{0, 0, 1}}, // 48
	{homeFace: 14, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{0, 9}}, // 49
	{homeFace: 5, homeIJK: coordIJK{0, 0, 0}}, // 50
	{homeFace: 12, homeIJK: coordIJK{1, 0, 0}}, // 51
	{homeFace: 10, homeIJK: coordIJK{1, 1, 0}}, // 52
	{homeFace: 4, homeIJK: coordIJK{0, 1, 1}}, // 53
	{homeFace: 12, homeIJK: coordIJK{1, 1, 0}}, // 54
	{homeFace: 7, homeIJK: coordIJK{1, 0, 0}}, // 55
	{homeFace: 11, homeIJK: coordIJK{0, 1, 0}}, // 56
	{homeFace: 10, homeIJK: coordIJK{0, 0, 0}}, // 57
	{homeFace: 13, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{4, 8}}, // 58
	{homeFace: 10, homeIJK: coordIJK{0, 0, 1}}, // 59
	{homeFace: 11, homeIJK: coordIJK{0, 0, 1}}, // 60
	{homeFace: 9, homeIJK: coordIJK{0, 1, 0}}, // 61
	{homeFace: 8, homeIJK: coordIJK{0, 1, 0}}, // 62
	{homeFace: 6, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{11, 15}}, // 63
	{homeFace: 8, homeIJK: coordIJK{0, 0, 0}}, // 64
	{homeFace: 9, homeIJK: coordIJK{0, 0, 1}}, // 65
	{homeFace: 14, homeIJK: coordIJK{1, 0, 0}}, // 66
	{homeFace: 5, homeIJK: coordIJK{1, 0, 1}}, // 67
	{homeFace: 16, homeIJK: coordIJK{0, 1, 1}}, // 68
	{homeFace: 8, homeIJK: coordIJK{1, 0, 1}}, // 69
	{homeFace: 5, homeIJK: coordIJK{1, 0, 0}}, // 70
	{homeFace: 12, homeIJK: coordIJK{0, 0, 0}}, // 71
	{homeFace: 7, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{12, 16}}, // 72
	{homeFace: 12, homeIJK: coordIJK{0, 1, 0}}, // 73
	{homeFace: 10, homeIJK: coordIJK{0, 1, 0}}, // 74
	{homeFace: 9, homeIJK: coordIJK{0, 0, 0}}, // 75
	{homeFace: 13, homeIJK: coordIJK{1, 0, 0}}, // 76
	{homeFace: 16, homeIJK: coordIJK{0, 0, 1}}, // 77
	{homeFace: 15, homeIJK: coordIJK{0, 1, 1}}, // 78
	{homeFace: 15, homeIJK: coordIJK{0, 1, 0}}, // 79
	{homeFace: 16, homeIJK: coordIJK{0, 1, 0}}, // 80
	{homeFace: 14, homeIJK: coordIJK{1, 1, 0}}, // 81
	{homeFace: 13, homeIJK: coordIJK{1, 1, 0}}, // 82
	{homeFace: 5, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{10, 19}}, // 83
	{homeFace: 8, homeIJK: coordIJK{1, 0, 0}}, // 84
	{homeFace: 14, homeIJK: coordIJK{0, 0, 0}}, // 85
	{homeFace: 9, homeIJK: coordIJK{1, 0, 1}}, // 86
	{homeFace: 14, homeIJK: coordIJK{0, 0, 1}}, // 87
	{homeFace: 17, homeIJK: coordIJK{0, 0, 1}}, // 88
	{homeFace: 12, homeIJK: coordIJK{0, 0, 1}}, // 89
	{homeFace: 16, homeIJK: coordIJK{0, 0, 0}}, // 90
	{homeFace: 17, homeIJK: coordIJK{0, 1, 1}}, // 91
	{homeFace: 15, homeIJK: coordIJK{0, 0, 1}}, // 92
	{homeFace: 16, homeIJK: coordIJK{1, 0, 1}}, // 93
	{homeFace: 9, homeIJK: coordIJK{1, 0, 0}}, // 94
	{homeFace: 15, homeIJK: coordIJK{0, 0, 0}}, // 95
	{homeFace: 13, homeIJK: coordIJK{0, 0, 0}}, // 96
	{homeFace: 8, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{13, 17}}, // 97
	{homeFace: 13, homeIJK: coordIJK{0, 1, 0}}, // 98
	{homeFace: 17, homeIJK: coordIJK{1, 0, 1}}, // 99
	{homeFace: 19, homeIJK: coordIJK{0, 1, 0}}, // 100
	{homeFace: 14, homeIJK: coordIJK{0, 1, 0}}, // 101
	{homeFace: 19, homeIJK: coordIJK{0, 1, 1}}, // 102
	{homeFace: 17, homeIJK: coordIJK{0, 1, 0}}, // 103
	{homeFace: 13, homeIJK: coordIJK{0, 0, 1}}, // 104
	{homeFace: 17, homeIJK: coordIJK{0, 0, 0}}, // 105
	{homeFace: 16, homeIJK: coordIJK{1, 0, 0}}, // 106
	{homeFace: 9, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{14, 18}}, // 107
	{homeFace: 15, homeIJK: coordIJK{1, 0, 1}}, // 108
	{homeFace: 15, homeIJK: coordIJK{1, 0, 0}}, // 109
	{homeFace: 18, homeIJK: coordIJK{0, 1, 1}}, // 110
	{homeFace: 18, homeIJK: coordIJK{0, 0, 1}}, // 111
	{homeFace: 19, homeIJK: coordIJK{0, 0, 1}}, // 112
	{homeFace: 17, homeIJK: coordIJK{1, 0, 0}}, // 113
	{homeFace: 19, homeIJK: coordIJK{0, 0, 0}}, // 114
	{homeFace: 18, homeIJK: coordIJK{0, 1, 0}}, // 115
	{homeFace: 18, homeIJK: coordIJK{1, 0, 1}}, // 116
	{homeFace: 19, homeIJK: coordIJK{2, 0, 0}, pentagon: true, cwOffsetPent: [2]int{-1, -1}}, // 117
	{homeFace: 19, homeIJK: coordIJK{1, 0, 0}}, // 118
	{homeFace: 18, homeIJK: coordIJK{0, 0, 0}}, // 119
	{homeFace: 19, homeIJK: coordIJK{1, 0, 1}}, // 120
	{homeFace: 18, homeIJK: coordIJK{1, 0, 0}}, // 121
}

// faceIJKBaseCells resolves a res 0 face IJK to its base cell and the
// number of ccw rotations from the face frame into the base cell frame.
var faceIJKBaseCells = [numFaces][3][3][3]baseCellRotation{
	{ // face 0
		{{{16, 0}, {18, 0}, {24, 0}}, {{33, 0}, {30, 0}, {32, 3}}, {{49, 1}, {48, 3}, {50, 3}}},
		{{{8, 0}, {5, 5}, {10, 5}}, {{22, 0}, {16, 0}, {18, 0}}, {{41, 1}, {33, 0}, {30, 0}}},
		{{{4, 0}, {0, 5}, {2, 5}}, {{15, 1}, {8, 0}, {5, 5}}, {{31, 1}, {22, 0}, {16, 0}}},
	},
	{ // face 1
		{{{2, 0}, {6, 0}, {14, 0}}, {{10, 0}, {11, 0}, {17, 3}}, {{24, 1}, {23, 3}, {25, 3}}},
		{{{0, 0}, {1, 5}, {9, 5}}, {{5, 0}, {2, 0}, {6, 0}}, {{18, 1}, {10, 0}, {11, 0}}},
		{{{4, 1}, {3, 5}, {7, 5}}, {{8, 1}, {0, 0}, {1, 5}}, {{16, 1}, {5, 0}, {2, 0}}},
	},
	{ // face 2
		{{{7, 0}, {21, 0}, {38, 0}}, {{9, 0}, {19, 0}, {34, 3}}, {{14, 1}, {20, 3}, {36, 3}}},
		{{{3, 0}, {13, 5}, {29, 5}}, {{1, 0}, {7, 0}, {21, 0}}, {{6, 1}, {9, 0}, {19, 0}}},
		{{{4, 2}, {12, 5}, {26, 5}}, {{0, 1}, {3, 0}, {13, 5}}, {{2, 1}, {1, 0}, {7, 0}}},
	},
	{ // face 3
		{{{26, 0}, {42, 0}, {58, 0}}, {{29, 0}, {43, 0}, {62, 3}}, {{38, 1}, {47, 3}, {64, 3}}},
		{{{12, 0}, {28, 5}, {44, 5}}, {{13, 0}, {26, 0}, {42, 0}}, {{21, 1}, {29, 0}, {43, 0}}},
		{{{4, 3}, {15, 5}, {31, 5}}, {{3, 1}, {12, 0}, {28, 5}}, {{7, 1}, {13, 0}, {26, 0}}},
	},
	{ // face 4
		{{{31, 0}, {41, 0}, {49, 0}}, {{44, 0}, {53, 0}, {61, 3}}, {{58, 1}, {65, 3}, {75, 3}}},
		{{{15, 0}, {22, 5}, {33, 5}}, {{28, 0}, {31, 0}, {41, 0}}, {{42, 1}, {44, 0}, {53, 0}}},
		{{{4, 4}, {8, 5}, {16, 5}}, {{12, 1}, {15, 0}, {22, 5}}, {{26, 1}, {28, 0}, {31, 0}}},
	},
	{ // face 5
		{{{50, 0}, {48, 0}, {49, 3}}, {{32, 0}, {30, 3}, {33, 3}}, {{24, 3}, {18, 3}, {16, 3}}},
		{{{70, 0}, {67, 0}, {66, 3}}, {{52, 3}, {50, 0}, {48, 0}}, {{37, 3}, {32, 0}, {30, 3}}},
		{{{83, 0}, {87, 3}, {85, 3}}, {{74, 3}, {70, 0}, {67, 0}}, {{57, 3}, {52, 3}, {50, 0}}},
	},
	{ // face 6
		{{{25, 0}, {23, 0}, {24, 3}}, {{17, 0}, {11, 3}, {10, 3}}, {{14, 3}, {6, 3}, {2, 3}}},
		{{{45, 0}, {39, 0}, {37, 3}}, {{35, 3}, {25, 0}, {23, 0}}, {{27, 3}, {17, 0}, {11, 3}}},
		{{{63, 0}, {59, 3}, {57, 3}}, {{56, 3}, {45, 0}, {39, 0}}, {{46, 3}, {35, 3}, {25, 0}}},
	},
	{ // face 7
		{{{36, 0}, {20, 0}, {14, 3}}, {{34, 0}, {19, 3}, {9, 3}}, {{38, 3}, {21, 3}, {7, 3}}},
		{{{55, 0}, {40, 0}, {27, 3}}, {{54, 3}, {36, 0}, {20, 0}}, {{51, 3}, {34, 0}, {19, 3}}},
		{{{72, 0}, {60, 3}, {46, 3}}, {{73, 3}, {55, 0}, {40, 0}}, {{71, 3}, {54, 3}, {36, 0}}},
	},
	{ // face 8
		{{{64, 0}, {47, 0}, {38, 3}}, {{62, 0}, {43, 3}, {29, 3}}, {{58, 3}, {42, 3}, {26, 3}}},
		{{{84, 0}, {69, 0}, {51, 3}}, {{82, 3}, {64, 0}, {47, 0}}, {{76, 3}, {62, 0}, {43, 3}}},
		{{{97, 0}, {89, 3}, {71, 3}}, {{98, 3}, {84, 0}, {69, 0}}, {{96, 3}, {82, 3}, {64, 0}}},
	},
	{ // face 9
		{{{75, 0}, {65, 0}, {58, 3}}, {{61, 0}, {53, 3}, {44, 3}}, {{49, 3}, {41, 3}, {31, 3}}},
		{{{94, 0}, {86, 0}, {76, 3}}, {{81, 3}, {75, 0}, {65, 0}}, {{66, 3}, {61, 0}, {53, 3}}},
		{{{107, 0}, {104, 3}, {96, 3}}, {{101, 3}, {94, 0}, {86, 0}}, {{85, 3}, {81, 3}, {75, 0}}},
	},
	{ // face 10
		{{{57, 0}, {59, 0}, {63, 3}}, {{74, 0}, {78, 3}, {79, 3}}, {{83, 3}, {92, 3}, {95, 3}}},
		{{{37, 0}, {39, 3}, {45, 3}}, {{52, 0}, {57, 0}, {59, 0}}, {{70, 3}, {74, 0}, {78, 3}}},
		{{{24, 0}, {23, 3}, {25, 3}}, {{32, 3}, {37, 0}, {39, 3}}, {{50, 3}, {52, 0}, {57, 0}}},
	},
	{ // face 11
		{{{46, 0}, {60, 0}, {72, 3}}, {{56, 0}, {68, 3}, {80, 3}}, {{63, 3}, {77, 3}, {90, 3}}},
		{{{27, 0}, {40, 3}, {55, 3}}, {{35, 0}, {46, 0}, {60, 0}}, {{45, 3}, {56, 0}, {68, 3}}},
		{{{14, 0}, {20, 3}, {36, 3}}, {{17, 3}, {27, 0}, {40, 3}}, {{25, 3}, {35, 0}, {46, 0}}},
	},
	{ // face 12
		{{{71, 0}, {89, 0}, {97, 3}}, {{73, 0}, {91, 3}, {103, 3}}, {{72, 3}, {88, 3}, {105, 3}}},
		{{{51, 0}, {69, 3}, {84, 3}}, {{54, 0}, {71, 0}, {89, 0}}, {{55, 3}, {73, 0}, {91, 3}}},
		{{{38, 0}, {47, 3}, {64, 3}}, {{34, 3}, {51, 0}, {69, 3}}, {{36, 3}, {54, 0}, {71, 0}}},
	},
	{ // face 13
		{{{96, 0}, {104, 0}, {107, 3}}, {{98, 0}, {110, 3}, {115, 3}}, {{97, 3}, {111, 3}, {119, 3}}},
		{{{76, 0}, {86, 3}, {94, 3}}, {{82, 0}, {96, 0}, {104, 0}}, {{84, 3}, {98, 0}, {110, 3}}},
		{{{58, 0}, {65, 3}, {75, 3}}, {{62, 3}, {76, 0}, {86, 3}}, {{64, 3}, {82, 0}, {96, 0}}},
	},
	{ // face 14
		{{{85, 0}, {87, 0}, {83, 3}}, {{101, 0}, {102, 3}, {100, 3}}, {{107, 3}, {112, 3}, {114, 3}}},
		{{{66, 0}, {67, 3}, {70, 3}}, {{81, 0}, {85, 0}, {87, 0}}, {{94, 3}, {101, 0}, {102, 3}}},
		{{{49, 0}, {48, 3}, {50, 3}}, {{61, 3}, {66, 0}, {67, 3}}, {{75, 3}, {81, 0}, {85, 0}}},
	},
	{ // face 15
		{{{95, 0}, {92, 0}, {83, 0}}, {{79, 0}, {78, 0}, {74, 3}}, {{63, 1}, {59, 3}, {57, 3}}},
		{{{109, 0}, {108, 0}, {100, 5}}, {{93, 1}, {95, 0}, {92, 0}}, {{77, 1}, {79, 0}, {78, 0}}},
		{{{117, 4}, {118, 5}, {114, 5}}, {{106, 1}, {109, 0}, {108, 0}}, {{90, 1}, {93, 1}, {95, 0}}},
	},
	{ // face 16
		{{{90, 0}, {77, 0}, {63, 0}}, {{80, 0}, {68, 0}, {56, 3}}, {{72, 1}, {60, 3}, {46, 3}}},
		{{{106, 0}, {93, 0}, {79, 5}}, {{99, 1}, {90, 0}, {77, 0}}, {{88, 1}, {80, 0}, {68, 0}}},
		{{{117, 3}, {109, 5}, {95, 5}}, {{113, 1}, {106, 0}, {93, 0}}, {{105, 1}, {99, 1}, {90, 0}}},
	},
	{ // face 17
		{{{105, 0}, {88, 0}, {72, 0}}, {{103, 0}, {91, 0}, {73, 3}}, {{97, 1}, {89, 3}, {71, 3}}},
		{{{113, 0}, {99, 0}, {80, 5}}, {{116, 1}, {105, 0}, {88, 0}}, {{111, 1}, {103, 0}, {91, 0}}},
		{{{117, 2}, {106, 5}, {90, 5}}, {{121, 1}, {113, 0}, {99, 0}}, {{119, 1}, {116, 1}, {105, 0}}},
	},
	{ // face 18
		{{{119, 0}, {111, 0}, {97, 0}}, {{115, 0}, {110, 0}, {98, 3}}, {{107, 1}, {104, 3}, {96, 3}}},
		{{{121, 0}, {116, 0}, {103, 5}}, {{120, 1}, {119, 0}, {111, 0}}, {{112, 1}, {115, 0}, {110, 0}}},
		{{{117, 1}, {113, 5}, {105, 5}}, {{118, 1}, {121, 0}, {116, 0}}, {{114, 1}, {120, 1}, {119, 0}}},
	},
	{ // face 19
		{{{114, 0}, {112, 0}, {107, 0}}, {{100, 0}, {102, 0}, {101, 3}}, {{83, 1}, {87, 3}, {85, 3}}},
		{{{118, 0}, {120, 0}, {115, 5}}, {{108, 1}, {114, 0}, {112, 0}}, {{92, 1}, {100, 0}, {102, 0}}},
		{{{117, 0}, {121, 5}, {119, 5}}, {{109, 1}, {118, 0}, {120, 0}}, {{95, 1}, {108, 1}, {114, 0}}},
	},
}
