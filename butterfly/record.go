package butterfly

import (
	"fmt"
	"math"
)

const (
	// TblButterflies is the sql table recording each butterfly's position
	// and value at every generation.
	TblButterflies = "butterflies"
	// TblBest is the sql table recording the best-known position and value
	// at every generation.
	TblBest = "butterflybest"
)

func (it *Iterator) initdb() error {
	if it.Db == nil {
		return nil
	}

	s := "CREATE TABLE IF NOT EXISTS " + TblButterflies + " (butterfly INTEGER, gen INTEGER, val REAL"
	s += it.xdbsql("define")
	s += ");"
	if _, err := it.Db.Exec(s); err != nil {
		return err
	}

	s = "CREATE TABLE IF NOT EXISTS " + TblBest + " (gen INTEGER, val REAL"
	s += it.xdbsql("define")
	s += ");"
	if _, err := it.Db.Exec(s); err != nil {
		return err
	}
	return nil
}

func (it *Iterator) xdbsql(op string) string {
	s := ""
	for i := range it.Pop[0].Pos {
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += fmt.Sprintf(",x%v REAL", i)
		case "x":
			s += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func pos2iface(pos []float64) []interface{} {
	iface := make([]interface{}, 0, len(pos))
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

func (it *Iterator) updateDb() error {
	if it.Db == nil {
		return nil
	}

	tx, err := it.Db.Begin()
	if err != nil {
		return err
	}
	defer tx.Commit()

	s0 := "INSERT INTO " + TblButterflies + " (butterfly,gen,val" + it.xdbsql("x") + ") VALUES (?,?,?" + it.xdbsql("?") + ");"
	for _, b := range it.Pop {
		args := []interface{}{b.Id, it.state.Gen, b.Val}
		args = append(args, pos2iface(b.Pos)...)
		if _, err := tx.Exec(s0, args...); err != nil {
			return err
		}
	}

	if it.best.Len() != len(it.Pop[0].Pos) || math.IsInf(it.best.Val, 1) {
		// no finite-valued point recorded yet
		return nil
	}
	s1 := "INSERT INTO " + TblBest + " (gen,val" + it.xdbsql("x") + ") VALUES (?,?" + it.xdbsql("?") + ");"
	args := []interface{}{it.state.Gen, it.best.Val}
	args = append(args, pos2iface(it.best.Pos())...)
	if _, err := tx.Exec(s1, args...); err != nil {
		return err
	}
	return nil
}
