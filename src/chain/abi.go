package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Interface of the confidential records contract
const RecordsABI = `[
  {"type":"function","name":"getAllBusinessIds","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"string[]"}]},
  {"type":"function","name":"getBusinessData","stateMutability":"view",
   "inputs":[{"name":"businessId","type":"string"}],
   "outputs":[
     {"name":"name","type":"string"},
     {"name":"publicValue1","type":"uint256"},
     {"name":"publicValue2","type":"uint256"},
     {"name":"creator","type":"address"},
     {"name":"timestamp","type":"uint256"},
     {"name":"isVerified","type":"bool"},
     {"name":"decryptedValue","type":"uint32"}
   ]},
  {"type":"function","name":"getEncryptedValue","stateMutability":"view",
   "inputs":[{"name":"businessId","type":"string"}],
   "outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"createBusinessData","stateMutability":"nonpayable",
   "inputs":[
     {"name":"businessId","type":"string"},
     {"name":"name","type":"string"},
     {"name":"encryptedValue","type":"bytes32"},
     {"name":"inputProof","type":"bytes"},
     {"name":"publicValue1","type":"uint256"},
     {"name":"publicValue2","type":"uint256"},
     {"name":"description","type":"string"}
   ],"outputs":[]},
  {"type":"function","name":"verifyDecryption","stateMutability":"nonpayable",
   "inputs":[
     {"name":"businessId","type":"string"},
     {"name":"abiEncodedClearValues","type":"bytes"},
     {"name":"decryptionProof","type":"bytes"}
   ],"outputs":[]},
  {"type":"function","name":"isAvailable","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"BusinessDataCreated","anonymous":false,
   "inputs":[
     {"name":"businessId","type":"string","indexed":false},
     {"name":"creator","type":"address","indexed":true}
   ]},
  {"type":"event","name":"DecryptionVerified","anonymous":false,
   "inputs":[
     {"name":"businessId","type":"string","indexed":false},
     {"name":"decryptedValue","type":"uint32","indexed":false}
   ]}
]`

const (
	MethodGetAllBusinessIds  = "getAllBusinessIds"
	MethodGetBusinessData    = "getBusinessData"
	MethodGetEncryptedValue  = "getEncryptedValue"
	MethodCreateBusinessData = "createBusinessData"
	MethodVerifyDecryption   = "verifyDecryption"
	MethodIsAvailable        = "isAvailable"
)

func ParseRecordsABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(RecordsABI))
}
